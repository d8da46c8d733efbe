package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	activityrepo "moveops_backend/internal/activity/repository"
	bookingrepo "moveops_backend/internal/bookings/repository"
	"moveops_backend/platform/apperr"
)

// Memory is an in-memory Repository for service-level tests. Booking
// ownership checks and deposit stamps go through the bookings memory store.
type Memory struct {
	mu         sync.Mutex
	payments   map[uuid.UUID]Payment
	byOrderID  map[string]uuid.UUID
	bookings   *bookingrepo.Memory
	activities *activityrepo.Memory
}

func NewMemory(bookings *bookingrepo.Memory, activities *activityrepo.Memory) *Memory {
	return &Memory{
		payments:   make(map[uuid.UUID]Payment),
		byOrderID:  make(map[string]uuid.UUID),
		bookings:   bookings,
		activities: activities,
	}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) Create(ctx context.Context, merchantID uuid.UUID, p Payment) (Payment, error) {
	if _, err := m.bookings.GetByID(ctx, merchantID, p.BookingID); err != nil {
		return Payment{}, err
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.MerchantID = merchantID
	p.Status = StatusPending
	p.CreatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
	if p.TossOrderID != nil {
		m.byOrderID[*p.TossOrderID] = p.ID
	}
	return p, nil
}

func (m *Memory) GetByOrderID(_ context.Context, tossOrderID string) (Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byOrderID[tossOrderID]
	if !ok {
		return Payment{}, apperr.NotFound("payment not found")
	}
	return m.payments[id], nil
}

func (m *Memory) ListByMerchant(_ context.Context, merchantID uuid.UUID, limit int) ([]Payment, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var payments []Payment
	for _, p := range m.payments {
		if p.MerchantID == merchantID {
			payments = append(payments, p)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	if len(payments) > limit {
		payments = payments[:limit]
	}
	return payments, nil
}

func (m *Memory) MarkCompleted(ctx context.Context, paymentID uuid.UUID, paymentKey string) (Payment, error) {
	m.mu.Lock()
	p, ok := m.payments[paymentID]
	if !ok {
		m.mu.Unlock()
		return Payment{}, apperr.NotFound("payment not found")
	}
	if p.Status != StatusPending {
		m.mu.Unlock()
		return Payment{}, apperr.Conflict(fmt.Sprintf("payment is already %s", p.Status))
	}
	p.Status = StatusCompleted
	p.TossPaymentKey = &paymentKey
	m.payments[paymentID] = p
	m.mu.Unlock()

	if err := m.bookings.SetDeposit(ctx, p.BookingID, p.Amount, paymentKey); err != nil {
		return Payment{}, err
	}
	m.appendActivity(p, activityrepo.TypePaymentConfirmed,
		fmt.Sprintf("Deposit of %d KRW received", p.Amount))
	return p, nil
}

func (m *Memory) MarkFailed(_ context.Context, paymentID uuid.UUID) (Payment, error) {
	m.mu.Lock()
	p, ok := m.payments[paymentID]
	if !ok {
		m.mu.Unlock()
		return Payment{}, apperr.NotFound("payment not found")
	}
	if p.Status != StatusPending {
		m.mu.Unlock()
		return Payment{}, apperr.Conflict(fmt.Sprintf("payment is already %s", p.Status))
	}
	p.Status = StatusFailed
	m.payments[paymentID] = p
	m.mu.Unlock()

	m.appendActivity(p, activityrepo.TypePaymentFailed,
		fmt.Sprintf("Deposit payment of %d KRW failed", p.Amount))
	return p, nil
}

func (m *Memory) appendActivity(p Payment, activityType, description string) {
	if m.activities == nil {
		return
	}
	entityType := "payment"
	m.activities.Append(activityrepo.Activity{
		MerchantID:  p.MerchantID,
		Type:        activityType,
		Description: description,
		EntityID:    &p.ID,
		EntityType:  &entityType,
	})
}
