package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"moveops_backend/platform/apperr"
)

// Memory is an in-memory Repository for service-level tests.
type Memory struct {
	mu        sync.Mutex
	merchants map[uuid.UUID]Merchant
	rules     map[uuid.UUID]PricingRule
}

func NewMemory() *Memory {
	return &Memory{
		merchants: make(map[uuid.UUID]Merchant),
		rules:     make(map[uuid.UUID]PricingRule),
	}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) Provision(_ context.Context, merchant Merchant, rule PricingRule) (Merchant, error) {
	if merchant.ID == uuid.Nil {
		merchant.ID = uuid.New()
	}
	merchant.CreatedAt = time.Now()
	rule.MerchantID = merchant.ID

	m.mu.Lock()
	defer m.mu.Unlock()
	m.merchants[merchant.ID] = merchant
	m.rules[merchant.ID] = rule
	return merchant, nil
}

func (m *Memory) GetByID(_ context.Context, id uuid.UUID) (Merchant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	merchant, ok := m.merchants[id]
	if !ok {
		return Merchant{}, apperr.NotFound("merchant not found")
	}
	return merchant, nil
}

func (m *Memory) GetPricingRule(_ context.Context, merchantID uuid.UUID) (PricingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule, ok := m.rules[merchantID]
	if !ok {
		return PricingRule{}, apperr.NotFound("pricing rule not found")
	}
	return rule, nil
}

func (m *Memory) UpsertPricingRule(_ context.Context, rule PricingRule) (PricingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.MerchantID] = rule
	return rule, nil
}
