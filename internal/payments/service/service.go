// Package service implements deposit payments and the Toss gateway callback.
package service

import (
	"context"

	"github.com/google/uuid"

	"moveops_backend/internal/events"
	"moveops_backend/internal/payments/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/logger"
)

type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func NewService(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// CreateInput carries validated fields for a new deposit charge.
type CreateInput struct {
	BookingID   uuid.UUID
	Amount      int64
	TossOrderID string
}

// Create records a pending deposit payment for a booking.
func (s *Service) Create(ctx context.Context, merchantID uuid.UUID, input CreateInput) (repository.Payment, error) {
	if input.Amount <= 0 {
		return repository.Payment{}, apperr.Validation("amount must be positive")
	}

	p := repository.Payment{BookingID: input.BookingID, Amount: input.Amount}
	if input.TossOrderID != "" {
		p.TossOrderID = &input.TossOrderID
	}
	return s.repo.Create(ctx, merchantID, p)
}

// List returns the merchant's newest payments.
func (s *Service) List(ctx context.Context, merchantID uuid.UUID, limit int) ([]repository.Payment, error) {
	return s.repo.ListByMerchant(ctx, merchantID, limit)
}

// CallbackInput is the payload the Toss gateway posts after a charge attempt.
type CallbackInput struct {
	OrderID    string
	PaymentKey string
	Status     string
}

// Succeeded reports whether the gateway confirmed the charge. Toss reports
// "DONE" for settled card payments.
func (c CallbackInput) Succeeded() bool {
	return c.Status == "DONE" || c.Status == "success"
}

// HandleCallback resolves the payment by order ID and finalizes it. Repeated
// callbacks for an already finalized payment conflict rather than double
// apply.
func (s *Service) HandleCallback(ctx context.Context, input CallbackInput) (repository.Payment, error) {
	payment, err := s.repo.GetByOrderID(ctx, input.OrderID)
	if err != nil {
		return repository.Payment{}, err
	}

	if input.Succeeded() {
		completed, err := s.repo.MarkCompleted(ctx, payment.ID, input.PaymentKey)
		if err != nil {
			return repository.Payment{}, err
		}
		s.log.Info("payment completed",
			"payment_id", completed.ID, "booking_id", completed.BookingID, "amount", completed.Amount)
		s.bus.Publish(ctx, events.PaymentCompleted{
			BaseEvent:  events.NewBaseEvent(),
			PaymentID:  completed.ID,
			BookingID:  completed.BookingID,
			MerchantID: completed.MerchantID,
			Amount:     completed.Amount,
		})
		return completed, nil
	}

	failed, err := s.repo.MarkFailed(ctx, payment.ID)
	if err != nil {
		return repository.Payment{}, err
	}
	s.log.Warn("payment failed",
		"payment_id", failed.ID, "booking_id", failed.BookingID, "gateway_status", input.Status)
	s.bus.Publish(ctx, events.PaymentFailed{
		BaseEvent:  events.NewBaseEvent(),
		PaymentID:  failed.ID,
		BookingID:  failed.BookingID,
		MerchantID: failed.MerchantID,
		Amount:     failed.Amount,
	})
	return failed, nil
}
