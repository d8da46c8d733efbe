// Package notification emails merchants about booking and payment events.
package notification

import (
	"context"
	"time"
)

// Email subjects.
const (
	subjectBookingConfirmed = "Booking confirmed"
	subjectDepositReceived  = "Deposit received"
	subjectBookingReminder  = "Upcoming move reminder"
)

// Sender delivers merchant notifications.
type Sender interface {
	SendBookingConfirmedEmail(ctx context.Context, toEmail, customerName string, slotStart *time.Time, bookingID string) error
	SendDepositReceivedEmail(ctx context.Context, toEmail string, amount int64, bookingID string) error
	SendBookingReminderEmail(ctx context.Context, toEmail string, slotStart time.Time, bookingID string) error
}

// NoopSender drops all notifications. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendBookingConfirmedEmail(context.Context, string, string, *time.Time, string) error {
	return nil
}

func (NoopSender) SendDepositReceivedEmail(context.Context, string, int64, string) error {
	return nil
}

func (NoopSender) SendBookingReminderEmail(context.Context, string, time.Time, string) error {
	return nil
}

func formatSlot(slotStart *time.Time) string {
	if slotStart == nil {
		return ""
	}
	return slotStart.Format("2006-01-02 15:04 MST")
}
