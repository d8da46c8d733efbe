package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/bookings/domain"
	bookingrepo "moveops_backend/internal/bookings/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/logger"
)

type stubBookings struct {
	bookings []bookingrepo.Booking
}

func (s stubBookings) ListActiveBetween(context.Context, uuid.UUID, time.Time, time.Time) ([]bookingrepo.Booking, error) {
	return s.bookings, nil
}

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestSlotsEmptyDay(t *testing.T) {
	svc, err := NewService(stubBookings{}, logger.New("test"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	slots, err := svc.Slots(context.Background(), uuid.New(), "2025-04-02")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(slots))
	}

	loc := seoul(t)
	wantStart := time.Date(2025, 4, 2, 9, 0, 0, 0, loc)
	for i, slot := range slots {
		if !slot.Start.Equal(wantStart) {
			t.Fatalf("slot %d starts %v, want %v", i, slot.Start, wantStart)
		}
		if !slot.End.Equal(wantStart.Add(2 * time.Hour)) {
			t.Fatalf("slot %d ends %v, want %v", i, slot.End, wantStart.Add(2*time.Hour))
		}
		if !slot.Available {
			t.Fatalf("slot %d unavailable on an empty day", i)
		}
		wantStart = wantStart.Add(2 * time.Hour)
	}
	if last := slots[3].End; last.Hour() != 17 {
		t.Fatalf("last slot ends at %d:00, want 17:00", last.Hour())
	}
}

func TestSlotsOverlapMarksUnavailable(t *testing.T) {
	loc := seoul(t)
	// A booking from 10:00 to 12:00 straddles the first two slots.
	start := time.Date(2025, 4, 2, 10, 0, 0, 0, loc)
	end := start.Add(2 * time.Hour)
	svc, err := NewService(stubBookings{bookings: []bookingrepo.Booking{{
		Status:    domain.StatusConfirmed,
		SlotStart: &start,
		SlotEnd:   &end,
	}}}, logger.New("test"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	slots, err := svc.Slots(context.Background(), uuid.New(), "2025-04-02")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}

	wantAvailable := []bool{false, false, true, true}
	for i, slot := range slots {
		if slot.Available != wantAvailable[i] {
			t.Fatalf("slot %d available = %v, want %v", i, slot.Available, wantAvailable[i])
		}
	}
}

func TestSlotsTouchingBoundaryDoesNotBlock(t *testing.T) {
	loc := seoul(t)
	// A booking ending exactly at 11:00 must not block the 11:00 slot.
	start := time.Date(2025, 4, 2, 9, 0, 0, 0, loc)
	end := start.Add(2 * time.Hour)
	svc, err := NewService(stubBookings{bookings: []bookingrepo.Booking{{
		Status:    domain.StatusConfirmed,
		SlotStart: &start,
		SlotEnd:   &end,
	}}}, logger.New("test"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	slots, err := svc.Slots(context.Background(), uuid.New(), "2025-04-02")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if slots[0].Available {
		t.Fatal("9-11 slot should be taken")
	}
	if !slots[1].Available {
		t.Fatal("11-13 slot should be free; bookings touching at the boundary do not overlap")
	}
}

func TestSlotsRejectsBadDate(t *testing.T) {
	svc, err := NewService(stubBookings{}, logger.New("test"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Slots(context.Background(), uuid.New(), "02-04-2025")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}
