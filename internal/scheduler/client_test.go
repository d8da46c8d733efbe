package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"moveops_backend/platform/logger"
)

type testSchedulerConfig struct {
	url string
}

func (c testSchedulerConfig) GetRedisURL() string      { return c.url }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "default" }
func (c testSchedulerConfig) GetAsynqConcurrency() int { return 1 }

func TestScheduleReminderEnqueuesDelayedTask(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testSchedulerConfig{url: "redis://" + mr.Addr()}

	client, err := NewClient(cfg, logger.New("test"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	merchantID := uuid.New()
	bookingID := uuid.New()
	slotStart := time.Now().Add(72 * time.Hour)

	if err := client.ScheduleReminder(context.Background(), merchantID, bookingID, slotStart); err != nil {
		t.Fatalf("ScheduleReminder: %v", err)
	}

	opt, err := redisClientOpt(cfg)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("default")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d scheduled tasks, want 1", len(tasks))
	}
	if tasks[0].Type != TaskTypeBookingReminder {
		t.Fatalf("task type = %s, want %s", tasks[0].Type, TaskTypeBookingReminder)
	}

	payload, err := ParseBookingReminderPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.BookingID != bookingID || payload.MerchantID != merchantID {
		t.Fatalf("payload = %+v, want booking %s merchant %s", payload, bookingID, merchantID)
	}

	// Fires the lead time ahead of the slot, not at the slot itself.
	wantAt := slotStart.Add(-ReminderLeadTime)
	if diff := tasks[0].NextProcessAt.Sub(wantAt); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("process at %v, want about %v", tasks[0].NextProcessAt, wantAt)
	}
}
