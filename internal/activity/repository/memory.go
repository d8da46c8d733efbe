package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-memory Repository used by service-level tests.
type Memory struct {
	mu      sync.Mutex
	entries []Activity
}

// NewMemory creates an empty in-memory activity store.
func NewMemory() *Memory {
	return &Memory{}
}

// Compile-time check that Memory implements Repository.
var _ Repository = (*Memory)(nil)

// Create appends one entry.
func (m *Memory) Create(_ context.Context, a Activity) (Activity, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, a)
	return a, nil
}

// Append stores an entry on behalf of another module's in-memory repository,
// mirroring the transactional co-write of the PostgreSQL implementation.
func (m *Memory) Append(a Activity) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, a)
}

// ListRecent returns entries descending by creation time, not by insertion
// order, matching the SQL ORDER BY of the real repository.
func (m *Memory) ListRecent(_ context.Context, merchantID uuid.UUID, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var items []Activity
	for _, a := range m.entries {
		if a.MerchantID == merchantID {
			items = append(items, a)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// All returns every stored entry for a merchant in insertion order.
// Test helper for asserting on the full feed.
func (m *Memory) All(merchantID uuid.UUID) []Activity {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []Activity
	for _, a := range m.entries {
		if a.MerchantID == merchantID {
			items = append(items, a)
		}
	}
	return items
}
