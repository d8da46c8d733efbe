package transport

import (
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/activity/repository"
)

type ActivityResponse struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	EntityID    *uuid.UUID `json:"entityId,omitempty"`
	EntityType  *string    `json:"entityType,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func ToActivityResponse(a repository.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Type:        a.Type,
		Description: a.Description,
		EntityID:    a.EntityID,
		EntityType:  a.EntityType,
		CreatedAt:   a.CreatedAt,
	}
}

func ToActivityResponses(items []repository.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToActivityResponse(a))
	}
	return out
}
