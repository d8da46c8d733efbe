package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"moveops_backend/internal/bookings/domain"
	bookingrepo "moveops_backend/internal/bookings/repository"
	merchantrepo "moveops_backend/internal/merchants/repository"
	"moveops_backend/internal/notification"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/config"
	"moveops_backend/platform/logger"
)

// BookingReader loads the booking a reminder refers to.
type BookingReader interface {
	Get(ctx context.Context, merchantID, id uuid.UUID) (bookingrepo.Booking, error)
}

// MerchantReader resolves the merchant's notification address.
type MerchantReader interface {
	GetMerchant(ctx context.Context, id uuid.UUID) (merchantrepo.Merchant, error)
}

// Worker consumes reminder tasks and sends the reminder emails.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	bookings  BookingReader
	merchants MerchantReader
	sender    notification.Sender
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, bookings BookingReader, merchants MerchantReader, sender notification.Sender, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		bookings:  bookings,
		merchants: merchants,
		sender:    sender,
		log:       log,
	}
	w.mux.HandleFunc(TaskTypeBookingReminder, w.handleBookingReminder)
	return w, nil
}

// Run blocks processing tasks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker, waiting for in-flight tasks.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleBookingReminder sends the reminder if the booking is still on. A
// booking cancelled or deleted after scheduling drops the task without retry.
func (w *Worker) handleBookingReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBookingReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	booking, err := w.bookings.Get(ctx, payload.MerchantID, payload.BookingID)
	if apperr.GetKind(err) == apperr.KindNotFound {
		w.log.Info("reminder dropped, booking gone", "booking_id", payload.BookingID)
		return nil
	}
	if err != nil {
		return err
	}
	if booking.Status != domain.StatusConfirmed {
		w.log.Info("reminder dropped, booking no longer confirmed",
			"booking_id", booking.ID, "status", booking.Status)
		return nil
	}

	merchant, err := w.merchants.GetMerchant(ctx, payload.MerchantID)
	if err != nil {
		return err
	}
	if merchant.NotifyEmail == "" {
		return nil
	}

	if err := w.sender.SendBookingReminderEmail(ctx, merchant.NotifyEmail, payload.SlotStart, booking.ID.String()); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	w.log.Info("reminder sent", "booking_id", booking.ID, "merchant_id", merchant.ID)
	return nil
}
