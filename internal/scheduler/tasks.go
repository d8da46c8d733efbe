// Package scheduler enqueues and processes delayed jobs over Redis.
// Today that is one job type: the move-day reminder email.
package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskTypeBookingReminder is the asynq task type for move-day reminders.
const TaskTypeBookingReminder = "booking:reminder"

// ReminderLeadTime is how long before the slot the reminder fires.
const ReminderLeadTime = 24 * time.Hour

// BookingReminderPayload is the task body for a move-day reminder.
type BookingReminderPayload struct {
	MerchantID uuid.UUID `json:"merchantId"`
	BookingID  uuid.UUID `json:"bookingId"`
	SlotStart  time.Time `json:"slotStart"`
}

// NewBookingReminderTask builds the asynq task for a reminder.
func NewBookingReminderTask(payload BookingReminderPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal reminder payload: %w", err)
	}
	return asynq.NewTask(TaskTypeBookingReminder, body), nil
}

// ParseBookingReminderPayload decodes a reminder task body.
func ParseBookingReminderPayload(task *asynq.Task) (BookingReminderPayload, error) {
	var payload BookingReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BookingReminderPayload{}, fmt.Errorf("unmarshal reminder payload: %w", err)
	}
	return payload, nil
}
