package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"moveops_backend/platform/config"
	"moveops_backend/platform/logger"
)

// Client enqueues reminder tasks.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

// NewClient connects the task queue using the configured Redis URL.
func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
		log:    log,
	}, nil
}

// ScheduleReminder enqueues a move-day reminder to fire a day before the
// slot. Slots closer than the lead time get the reminder immediately.
func (c *Client) ScheduleReminder(ctx context.Context, merchantID, bookingID uuid.UUID, slotStart time.Time) error {
	task, err := NewBookingReminderTask(BookingReminderPayload{
		MerchantID: merchantID,
		BookingID:  bookingID,
		SlotStart:  slotStart,
	})
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.ProcessAt(slotStart.Add(-ReminderLeadTime)),
		asynq.MaxRetry(5),
	)
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	c.log.Info("reminder scheduled",
		"booking_id", bookingID, "task_id", info.ID, "process_at", info.NextProcessAt)
	return nil
}

// Close releases the queue connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	parsed, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:     parsed.Addr,
		Username: parsed.Username,
		Password: parsed.Password,
		DB:       parsed.DB,
	}, nil
}
