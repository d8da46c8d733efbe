package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	activityrepo "moveops_backend/internal/activity/repository"
	"moveops_backend/internal/bookings/domain"
	"moveops_backend/platform/apperr"
)

// Memory is an in-memory Repository for service-level tests. It mirrors the
// PostgreSQL implementation's guarantees: one booking per lead, the quote
// guard, and activity co-writes.
type Memory struct {
	mu         sync.Mutex
	bookings   map[uuid.UUID]Booking
	byLead     map[uuid.UUID]uuid.UUID
	activities *activityrepo.Memory
}

func NewMemory(activities *activityrepo.Memory) *Memory {
	return &Memory{
		bookings:   make(map[uuid.UUID]Booking),
		byLead:     make(map[uuid.UUID]uuid.UUID),
		activities: activities,
	}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) UpsertQuote(_ context.Context, merchantID uuid.UUID, params QuoteParams) (Booking, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	priceMin, priceMax := params.PriceMin, params.PriceMax

	if existingID, ok := m.byLead[params.LeadID]; ok {
		b := m.bookings[existingID]
		if b.Status == domain.StatusConfirmed || b.Status == domain.StatusCancelled {
			return Booking{}, false, apperr.Conflict("booking is already confirmed or cancelled")
		}
		b.PriceMin = &priceMin
		b.PriceMax = &priceMax
		b.Status = domain.StatusQuoted
		m.bookings[existingID] = b
		m.appendActivity(merchantID, activityrepo.TypeQuoteGenerated, quoteDescription(params), b.ID)
		return b, false, nil
	}

	now := time.Now()
	slotEnd := now.Add(ProvisionalSlotDuration)
	b := Booking{
		ID:         uuid.New(),
		LeadID:     params.LeadID,
		MerchantID: merchantID,
		PriceMin:   &priceMin,
		PriceMax:   &priceMax,
		SlotStart:  &now,
		SlotEnd:    &slotEnd,
		Status:     domain.StatusQuoted,
		CreatedAt:  now,
	}
	m.bookings[b.ID] = b
	m.byLead[params.LeadID] = b.ID
	m.appendActivity(merchantID, activityrepo.TypeBookingCreated, "Tentative booking created from quote", b.ID)
	m.appendActivity(merchantID, activityrepo.TypeQuoteGenerated, quoteDescription(params), b.ID)
	return b, true, nil
}

func (m *Memory) GetByID(_ context.Context, merchantID, id uuid.UUID) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.MerchantID != merchantID {
		return Booking{}, apperr.NotFound("booking not found")
	}
	return b, nil
}

func (m *Memory) GetByLeadID(_ context.Context, merchantID, leadID uuid.UUID) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byLead[leadID]
	if !ok {
		return Booking{}, apperr.NotFound("booking not found")
	}
	b := m.bookings[id]
	if b.MerchantID != merchantID {
		return Booking{}, apperr.NotFound("booking not found")
	}
	return b, nil
}

func (m *Memory) ListByMerchant(_ context.Context, merchantID uuid.UUID, status domain.Status, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var bookings []Booking
	for _, b := range m.bookings {
		if b.MerchantID != merchantID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		bookings = append(bookings, b)
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	if len(bookings) > limit {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

func (m *Memory) ListActiveBetween(_ context.Context, merchantID uuid.UUID, from, to time.Time) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bookings []Booking
	for _, b := range m.bookings {
		if b.MerchantID != merchantID || b.Status == domain.StatusCancelled {
			continue
		}
		if b.SlotStart == nil || b.SlotEnd == nil {
			continue
		}
		if b.SlotStart.Before(to) && b.SlotEnd.After(from) {
			bookings = append(bookings, b)
		}
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].SlotStart.Before(*bookings[j].SlotStart)
	})
	return bookings, nil
}

func (m *Memory) Transition(_ context.Context, merchantID, id uuid.UUID, to domain.Status, slot SlotParams) (Booking, error) {
	if !to.Valid() {
		return Booking{}, apperr.Validation(fmt.Sprintf("unknown booking status %q", to))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok || b.MerchantID != merchantID {
		return Booking{}, apperr.NotFound("booking not found")
	}
	if !domain.CanTransition(b.Status, to) {
		return Booking{}, apperr.Conflict(fmt.Sprintf("cannot move booking from %s to %s", b.Status, to))
	}

	if slot.SlotStart != nil {
		b.SlotStart = slot.SlotStart
	}
	if slot.SlotEnd != nil {
		b.SlotEnd = slot.SlotEnd
	}
	b.Status = to
	m.bookings[id] = b

	if activityType, description := transitionActivity(to); activityType != "" {
		m.appendActivity(merchantID, activityType, description, b.ID)
	}
	return b, nil
}

func (m *Memory) SetDeposit(_ context.Context, bookingID uuid.UUID, amount int64, txID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[bookingID]
	if !ok {
		return apperr.NotFound("booking not found")
	}
	b.DepositAmount = &amount
	b.DepositTxID = &txID
	m.bookings[bookingID] = b
	return nil
}

func (m *Memory) appendActivity(merchantID uuid.UUID, activityType, description string, bookingID uuid.UUID) {
	if m.activities == nil {
		return
	}
	entityType := "booking"
	m.activities.Append(activityrepo.Activity{
		MerchantID:  merchantID,
		Type:        activityType,
		Description: description,
		EntityID:    &bookingID,
		EntityType:  &entityType,
	})
}

func quoteDescription(params QuoteParams) string {
	return fmt.Sprintf("Quote generated: %s - %s KRW", formatKRW(params.PriceMin), formatKRW(params.PriceMax))
}
