package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"moveops_backend/internal/events"
	merchantrepo "moveops_backend/internal/merchants/repository"
	"moveops_backend/platform/logger"
)

// MerchantReader resolves the merchant's notification address.
type MerchantReader interface {
	GetMerchant(ctx context.Context, id uuid.UUID) (merchantrepo.Merchant, error)
}

// Module listens for booking and payment events and emails the merchant.
// It has no HTTP surface.
type Module struct {
	sender    Sender
	merchants MerchantReader
	log       *logger.Logger
}

func NewModule(sender Sender, merchants MerchantReader, log *logger.Logger) *Module {
	return &Module{sender: sender, merchants: merchants, log: log}
}

func (m *Module) Name() string { return "notification" }

// Subscribe registers the module's event handlers on the bus.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(events.BookingConfirmed{}.EventName(), events.HandlerFunc(m.onBookingConfirmed))
	bus.Subscribe(events.PaymentCompleted{}.EventName(), events.HandlerFunc(m.onPaymentCompleted))
}

func (m *Module) onBookingConfirmed(ctx context.Context, evt events.Event) error {
	confirmed, ok := evt.(events.BookingConfirmed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", evt)
	}

	toEmail, err := m.notifyEmail(ctx, confirmed.MerchantID)
	if err != nil || toEmail == "" {
		return err
	}
	return m.sender.SendBookingConfirmedEmail(ctx, toEmail, "", confirmed.SlotStart, confirmed.BookingID.String())
}

func (m *Module) onPaymentCompleted(ctx context.Context, evt events.Event) error {
	completed, ok := evt.(events.PaymentCompleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", evt)
	}

	toEmail, err := m.notifyEmail(ctx, completed.MerchantID)
	if err != nil || toEmail == "" {
		return err
	}
	return m.sender.SendDepositReceivedEmail(ctx, toEmail, completed.Amount, completed.BookingID.String())
}

// notifyEmail returns "" without error when the merchant has no notification
// address configured.
func (m *Module) notifyEmail(ctx context.Context, merchantID uuid.UUID) (string, error) {
	merchant, err := m.merchants.GetMerchant(ctx, merchantID)
	if err != nil {
		return "", fmt.Errorf("resolve merchant for notification: %w", err)
	}
	return merchant.NotifyEmail, nil
}
