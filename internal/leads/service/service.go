// Package service implements lead intake and management.
package service

import (
	"context"

	"github.com/google/uuid"

	"moveops_backend/internal/events"
	"moveops_backend/internal/leads/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/logger"
	"moveops_backend/platform/phone"
	"moveops_backend/platform/sanitize"
)

type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func NewService(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create records a new inquiry. Phone numbers are normalized to E.164 where
// possible; unparseable numbers are kept verbatim rather than rejected, since
// an intake channel should never lose a lead over formatting.
func (s *Service) Create(ctx context.Context, lead repository.Lead) (repository.Lead, error) {
	if lead.MerchantID == uuid.Nil {
		return repository.Lead{}, apperr.Validation("merchant id is required")
	}
	if lead.Channel == "" {
		return repository.Lead{}, apperr.Validation("channel is required")
	}

	if lead.Phone != nil && *lead.Phone != "" {
		normalized := phone.NormalizeE164(*lead.Phone)
		lead.Phone = &normalized
	}
	// Names arrive from public intake channels and end up in the activity
	// feed and emails; strip any markup before storage.
	lead.Name = sanitize.TextPtr(lead.Name)

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return repository.Lead{}, err
	}

	evt := events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     created.ID,
		MerchantID: created.MerchantID,
		Channel:    created.Channel,
	}
	if created.Name != nil {
		evt.Name = *created.Name
	}
	if created.Phone != nil {
		evt.Phone = *created.Phone
	}
	s.bus.Publish(ctx, evt)

	return created, nil
}

// Get loads one lead scoped to the merchant.
func (s *Service) Get(ctx context.Context, merchantID, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, merchantID, id)
}

// List returns the merchant's newest leads.
func (s *Service) List(ctx context.Context, merchantID uuid.UUID, limit int) ([]repository.Lead, error) {
	return s.repo.ListByMerchant(ctx, merchantID, limit)
}

// Update applies a partial update. Phone numbers are normalized like Create.
func (s *Service) Update(ctx context.Context, merchantID, id uuid.UUID, patch repository.Patch) (repository.Lead, error) {
	if patch.Phone != nil && *patch.Phone != "" {
		normalized := phone.NormalizeE164(*patch.Phone)
		patch.Phone = &normalized
	}
	patch.Name = sanitize.TextPtr(patch.Name)
	return s.repo.Update(ctx, merchantID, id, patch)
}
