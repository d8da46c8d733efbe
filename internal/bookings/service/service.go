// Package service implements the quote engine and the booking lifecycle.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/bookings/domain"
	"moveops_backend/internal/bookings/ports"
	"moveops_backend/internal/bookings/repository"
	"moveops_backend/internal/events"
	"moveops_backend/platform/logger"
)

type Service struct {
	repo      repository.Repository
	leads     ports.LeadReader
	rules     ports.RuleReader
	distance  ports.DistanceEstimator
	reminders ports.ReminderScheduler
	bus       events.Bus
	log       *logger.Logger
}

func NewService(
	repo repository.Repository,
	leads ports.LeadReader,
	rules ports.RuleReader,
	distance ports.DistanceEstimator,
	bus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		leads:    leads,
		rules:    rules,
		distance: distance,
		bus:      bus,
		log:      log,
	}
}

// SetReminderScheduler wires the optional move-day reminder scheduler. The
// composition root calls this after both modules exist; a nil scheduler
// disables reminders.
func (s *Service) SetReminderScheduler(scheduler ports.ReminderScheduler) {
	s.reminders = scheduler
}

// GenerateQuote prices a lead and writes its quoted booking. The first quote
// for a lead creates the booking; later quotes update prices in place. Leads
// whose booking is already confirmed or cancelled cannot be re-quoted.
func (s *Service) GenerateQuote(ctx context.Context, merchantID, leadID uuid.UUID) (repository.Booking, Quote, error) {
	lead, err := s.leads.GetLead(ctx, merchantID, leadID)
	if err != nil {
		return repository.Booking{}, Quote{}, err
	}
	rule, err := s.rules.GetPricingRule(ctx, merchantID)
	if err != nil {
		return repository.Booking{}, Quote{}, err
	}
	distanceKm, err := s.distance.EstimateKm(ctx, lead.Origin, lead.Dest)
	if err != nil {
		return repository.Booking{}, Quote{}, err
	}

	quote := ComputeQuote(lead, rule, distanceKm)

	booking, inserted, err := s.repo.UpsertQuote(ctx, merchantID, repository.QuoteParams{
		LeadID:   leadID,
		PriceMin: quote.PriceMin,
		PriceMax: quote.PriceMax,
	})
	if err != nil {
		return repository.Booking{}, Quote{}, err
	}

	s.log.Info("quote generated",
		"merchant_id", merchantID, "lead_id", leadID, "booking_id", booking.ID,
		"price_min", quote.PriceMin, "price_max", quote.PriceMax, "new_booking", inserted)

	s.bus.Publish(ctx, events.QuoteGenerated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		BookingID:  booking.ID,
		MerchantID: merchantID,
		PriceMin:   quote.PriceMin,
		PriceMax:   quote.PriceMax,
	})

	return booking, quote, nil
}

// Confirm commits a quoted booking, optionally stamping its slot, and
// schedules the move-day reminder.
func (s *Service) Confirm(ctx context.Context, merchantID, id uuid.UUID, slot repository.SlotParams) (repository.Booking, error) {
	booking, err := s.repo.Transition(ctx, merchantID, id, domain.StatusConfirmed, slot)
	if err != nil {
		return repository.Booking{}, err
	}

	leadID := booking.LeadID
	s.bus.Publish(ctx, events.BookingConfirmed{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  booking.ID,
		LeadID:     &leadID,
		MerchantID: merchantID,
		SlotStart:  booking.SlotStart,
		SlotEnd:    booking.SlotEnd,
	})

	if s.reminders != nil && booking.SlotStart != nil {
		if err := s.reminders.ScheduleReminder(ctx, merchantID, booking.ID, *booking.SlotStart); err != nil {
			// The booking is confirmed either way; a lost reminder is
			// not worth failing the request over.
			s.log.Error("schedule reminder failed", "booking_id", booking.ID, "error", err)
		}
	}

	return booking, nil
}

// Cancel moves a booking to cancelled from any non-terminal status.
func (s *Service) Cancel(ctx context.Context, merchantID, id uuid.UUID) (repository.Booking, error) {
	booking, err := s.repo.Transition(ctx, merchantID, id, domain.StatusCancelled, repository.SlotParams{})
	if err != nil {
		return repository.Booking{}, err
	}

	leadID := booking.LeadID
	s.bus.Publish(ctx, events.BookingCancelled{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  booking.ID,
		LeadID:     &leadID,
		MerchantID: merchantID,
	})

	return booking, nil
}

// UpdateStatus applies an arbitrary status change from the back office UI.
// Confirm and cancel go through their dedicated paths so events and
// reminders fire.
func (s *Service) UpdateStatus(ctx context.Context, merchantID, id uuid.UUID, to domain.Status, slot repository.SlotParams) (repository.Booking, error) {
	switch to {
	case domain.StatusConfirmed:
		return s.Confirm(ctx, merchantID, id, slot)
	case domain.StatusCancelled:
		return s.Cancel(ctx, merchantID, id)
	default:
		return s.repo.Transition(ctx, merchantID, id, to, slot)
	}
}

// Get loads one booking scoped to the merchant.
func (s *Service) Get(ctx context.Context, merchantID, id uuid.UUID) (repository.Booking, error) {
	return s.repo.GetByID(ctx, merchantID, id)
}

// GetByLead loads the booking attached to a lead.
func (s *Service) GetByLead(ctx context.Context, merchantID, leadID uuid.UUID) (repository.Booking, error) {
	return s.repo.GetByLeadID(ctx, merchantID, leadID)
}

// List returns the merchant's bookings, optionally filtered by status.
func (s *Service) List(ctx context.Context, merchantID uuid.UUID, status domain.Status, limit int) ([]repository.Booking, error) {
	return s.repo.ListByMerchant(ctx, merchantID, status, limit)
}

// ListActiveBetween returns non-cancelled bookings overlapping a window.
// The calendar module uses this for slot availability.
func (s *Service) ListActiveBetween(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]repository.Booking, error) {
	return s.repo.ListActiveBetween(ctx, merchantID, from, to)
}
