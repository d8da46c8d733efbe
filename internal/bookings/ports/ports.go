// Package ports declares the bookings module's outbound dependencies. The
// composition root wires adapters over the owning modules, keeping bookings
// free of direct imports of their services.
package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	leadrepo "moveops_backend/internal/leads/repository"
	rulerepo "moveops_backend/internal/merchants/repository"
)

// LeadReader loads leads for quoting.
type LeadReader interface {
	GetLead(ctx context.Context, merchantID, id uuid.UUID) (leadrepo.Lead, error)
}

// RuleReader loads the merchant's pricing rule.
type RuleReader interface {
	GetPricingRule(ctx context.Context, merchantID uuid.UUID) (rulerepo.PricingRule, error)
}

// DistanceEstimator estimates the move distance between two address payloads.
type DistanceEstimator interface {
	EstimateKm(ctx context.Context, origin, dest json.RawMessage) (float64, error)
}

// ReminderScheduler enqueues a move-day reminder.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, merchantID, bookingID uuid.UUID, slotStart time.Time) error
}
