// Package service computes daily slot availability. Merchants work two-hour
// slots between 09:00 and 17:00 Korea time; a slot is taken when any
// non-cancelled booking overlaps it.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	bookingrepo "moveops_backend/internal/bookings/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/logger"
)

// Working day bounds, in hours of the merchant's local day.
const (
	dayStartHour = 9
	dayEndHour   = 17
)

// SlotDuration is the length of one bookable slot.
const SlotDuration = 2 * time.Hour

// Timezone is the merchant-local zone all slots are computed in.
const Timezone = "Asia/Seoul"

// BookingReader lists the bookings that occupy calendar capacity.
type BookingReader interface {
	ListActiveBetween(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]bookingrepo.Booking, error)
}

// Slot is one bookable window on a merchant's day.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

type Service struct {
	bookings BookingReader
	log      *logger.Logger
	loc      *time.Location
}

func NewService(bookings BookingReader, log *logger.Logger) (*Service, error) {
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		return nil, fmt.Errorf("load calendar timezone: %w", err)
	}
	return &Service{bookings: bookings, log: log, loc: loc}, nil
}

// Slots returns the day's slots for a merchant. The date is interpreted in
// Korea time regardless of the server's zone.
func (s *Service) Slots(ctx context.Context, merchantID uuid.UUID, date string) ([]Slot, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, apperr.Validation("date must be formatted YYYY-MM-DD")
	}

	dayStart := day.Add(dayStartHour * time.Hour)
	dayEnd := day.Add(dayEndHour * time.Hour)

	booked, err := s.bookings.ListActiveBetween(ctx, merchantID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for start := dayStart; start.Add(SlotDuration).Before(dayEnd) || start.Add(SlotDuration).Equal(dayEnd); start = start.Add(SlotDuration) {
		end := start.Add(SlotDuration)
		slots = append(slots, Slot{
			Start:     start,
			End:       end,
			Available: !overlapsAny(booked, start, end),
		})
	}
	return slots, nil
}

func overlapsAny(bookings []bookingrepo.Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if b.SlotStart == nil || b.SlotEnd == nil {
			continue
		}
		if b.SlotStart.Before(end) && b.SlotEnd.After(start) {
			return true
		}
	}
	return false
}
