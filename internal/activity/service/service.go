package service

import (
	"context"

	"github.com/google/uuid"

	"moveops_backend/internal/activity/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/logger"
)

// MaxListLimit caps the feed size a single request may ask for.
const MaxListLimit = 100

type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func NewService(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record appends an activity entry outside of any transaction. Modules that
// write inside their own transactions use repository.Insert directly instead.
func (s *Service) Record(ctx context.Context, a repository.Activity) (repository.Activity, error) {
	if a.MerchantID == uuid.Nil {
		return repository.Activity{}, apperr.Validation("merchant id is required")
	}
	if a.Type == "" {
		return repository.Activity{}, apperr.Validation("activity type is required")
	}
	return s.repo.Create(ctx, a)
}

// ListRecent returns the newest entries for a merchant, newest first.
func (s *Service) ListRecent(ctx context.Context, merchantID uuid.UUID, limit int) ([]repository.Activity, error) {
	if limit <= 0 {
		limit = repository.DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.ListRecent(ctx, merchantID, limit)
}
