package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	activityrepo "moveops_backend/internal/activity/repository"
	"moveops_backend/platform/apperr"
)

// Memory is an in-memory Repository for service-level tests. It co-writes
// activity entries the same way the PostgreSQL implementation does.
type Memory struct {
	mu         sync.Mutex
	leads      map[uuid.UUID]Lead
	activities *activityrepo.Memory
}

func NewMemory(activities *activityrepo.Memory) *Memory {
	return &Memory{
		leads:      make(map[uuid.UUID]Lead),
		activities: activities,
	}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, lead Lead) (Lead, error) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	lead.CreatedAt = time.Now()

	m.mu.Lock()
	m.leads[lead.ID] = lead
	m.mu.Unlock()

	if m.activities != nil {
		entityType := "lead"
		m.activities.Append(activityrepo.Activity{
			MerchantID:  lead.MerchantID,
			Type:        activityrepo.TypeLeadCreated,
			Description: leadActivityDescription(lead),
			EntityID:    &lead.ID,
			EntityType:  &entityType,
		})
	}
	return lead, nil
}

func (m *Memory) GetByID(_ context.Context, merchantID, id uuid.UUID) (Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok || lead.MerchantID != merchantID {
		return Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (m *Memory) ListByMerchant(_ context.Context, merchantID uuid.UUID, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var leads []Lead
	for _, lead := range m.leads {
		if lead.MerchantID == merchantID {
			leads = append(leads, lead)
		}
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	if len(leads) > limit {
		leads = leads[:limit]
	}
	return leads, nil
}

func (m *Memory) Update(_ context.Context, merchantID, id uuid.UUID, patch Patch) (Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[id]
	if !ok || lead.MerchantID != merchantID {
		return Lead{}, apperr.NotFound("lead not found")
	}

	if patch.Name != nil {
		lead.Name = patch.Name
	}
	if patch.Phone != nil {
		lead.Phone = patch.Phone
	}
	if patch.Origin != nil {
		lead.Origin = patch.Origin
	}
	if patch.Dest != nil {
		lead.Dest = patch.Dest
	}
	if patch.FloorFrom != nil {
		lead.FloorFrom = patch.FloorFrom
	}
	if patch.FloorTo != nil {
		lead.FloorTo = patch.FloorTo
	}
	if patch.ElevFrom != nil {
		lead.ElevFrom = patch.ElevFrom
	}
	if patch.ElevTo != nil {
		lead.ElevTo = patch.ElevTo
	}
	if patch.Volume != nil {
		lead.Volume = patch.Volume
	}
	if patch.PreferredTS != nil {
		lead.PreferredTS = patch.PreferredTS
	}

	m.leads[id] = lead
	return lead, nil
}
