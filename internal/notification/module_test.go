package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/events"
	merchantrepo "moveops_backend/internal/merchants/repository"
	platformevents "moveops_backend/platform/events"
	"moveops_backend/platform/logger"
)

type recordingSender struct {
	mu        sync.Mutex
	confirmed []string
	deposits  []int64
}

func (r *recordingSender) SendBookingConfirmedEmail(_ context.Context, toEmail, _ string, _ *time.Time, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmed = append(r.confirmed, toEmail)
	return nil
}

func (r *recordingSender) SendDepositReceivedEmail(_ context.Context, _ string, amount int64, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deposits = append(r.deposits, amount)
	return nil
}

func (r *recordingSender) SendBookingReminderEmail(context.Context, string, time.Time, string) error {
	return nil
}

func TestBookingConfirmedSendsToNotifyEmail(t *testing.T) {
	repo := merchantrepo.NewMemory()
	merchant, err := repo.Provision(context.Background(), merchantrepo.Merchant{
		Name:        "Moving Pro Co.",
		NotifyEmail: "owner@movingpro.example",
	}, merchantrepo.PricingRule{})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	sender := &recordingSender{}
	module := NewModule(sender, merchantReader{repo}, logger.New("test"))
	bus := platformevents.NewInMemoryBus(logger.New("test"))
	module.Subscribe(bus)

	if err := bus.PublishSync(context.Background(), events.BookingConfirmed{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  uuid.New(),
		MerchantID: merchant.ID,
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(sender.confirmed) != 1 || sender.confirmed[0] != "owner@movingpro.example" {
		t.Fatalf("sent to %v, want owner@movingpro.example", sender.confirmed)
	}
}

func TestPaymentCompletedSkipsWithoutNotifyEmail(t *testing.T) {
	repo := merchantrepo.NewMemory()
	merchant, err := repo.Provision(context.Background(), merchantrepo.Merchant{
		Name: "Moving Pro Co.",
	}, merchantrepo.PricingRule{})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	sender := &recordingSender{}
	module := NewModule(sender, merchantReader{repo}, logger.New("test"))
	bus := platformevents.NewInMemoryBus(logger.New("test"))
	module.Subscribe(bus)

	if err := bus.PublishSync(context.Background(), events.PaymentCompleted{
		BaseEvent:  events.NewBaseEvent(),
		PaymentID:  uuid.New(),
		BookingID:  uuid.New(),
		MerchantID: merchant.ID,
		Amount:     50000,
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(sender.deposits) != 0 {
		t.Fatalf("sent %v deposit mails, want none without a notify address", sender.deposits)
	}
}

type merchantReader struct{ repo *merchantrepo.Memory }

func (r merchantReader) GetMerchant(ctx context.Context, id uuid.UUID) (merchantrepo.Merchant, error) {
	return r.repo.GetByID(ctx, id)
}
