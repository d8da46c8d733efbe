// Package adapters bridges module ports to the services that implement them.
// Only the composition root imports this package.
package adapters

import (
	"context"

	"github.com/google/uuid"

	leadrepo "moveops_backend/internal/leads/repository"
	leadsvc "moveops_backend/internal/leads/service"
)

// LeadReader adapts the leads service to the bookings module's lead port.
type LeadReader struct {
	Leads *leadsvc.Service
}

func (a LeadReader) GetLead(ctx context.Context, merchantID, id uuid.UUID) (leadrepo.Lead, error) {
	return a.Leads.Get(ctx, merchantID, id)
}
