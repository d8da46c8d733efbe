// Package repository persists merchants and their pricing rules.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moveops_backend/platform/apperr"
)

// Merchant is a tenant of the back office. WebhookSecretHash stores a bcrypt
// hash; the plaintext secret is shown once at provisioning and never stored.
type Merchant struct {
	ID                uuid.UUID
	Name              string
	WebhookSecretHash string
	NotifyEmail       string
	CreatedAt         time.Time
}

// PricingRule is a merchant's quote parameters. Amounts are KRW integers.
// A merchant has exactly one rule; merchant_id is the primary key.
type PricingRule struct {
	MerchantID  uuid.UUID
	BaseFee     int64
	PerKm       int64
	PerFloor    int64
	VolumeCoeff map[string]float64
	SurgeRules  json.RawMessage
}

// Repository is the storage contract for merchants and pricing rules.
type Repository interface {
	// Provision creates a merchant together with its initial pricing rule
	// in one transaction.
	Provision(ctx context.Context, m Merchant, r PricingRule) (Merchant, error)
	GetByID(ctx context.Context, id uuid.UUID) (Merchant, error)
	GetPricingRule(ctx context.Context, merchantID uuid.UUID) (PricingRule, error)
	UpsertPricingRule(ctx context.Context, r PricingRule) (PricingRule, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Provision(ctx context.Context, m Merchant, rule PricingRule) (Merchant, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	rule.MerchantID = m.ID

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Merchant{}, fmt.Errorf("begin provision tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO merchants (id, name, webhook_secret_hash, notify_email, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.WebhookSecretHash, m.NotifyEmail, m.CreatedAt,
	)
	if err != nil {
		return Merchant{}, fmt.Errorf("insert merchant: %w", err)
	}

	coeff, err := json.Marshal(rule.VolumeCoeff)
	if err != nil {
		return Merchant{}, fmt.Errorf("marshal volume coeff: %w", err)
	}
	surge := rule.SurgeRules
	if len(surge) == 0 {
		surge = json.RawMessage(`{}`)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO pricing_rules (merchant_id, base_fee, per_km, per_floor, volume_coeff, surge_rules)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rule.MerchantID, rule.BaseFee, rule.PerKm, rule.PerFloor, coeff, surge,
	)
	if err != nil {
		return Merchant{}, fmt.Errorf("insert pricing rule: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Merchant{}, fmt.Errorf("commit provision tx: %w", err)
	}
	return m, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Merchant, error) {
	var m Merchant
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, webhook_secret_hash, notify_email, created_at
		FROM merchants WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Name, &m.WebhookSecretHash, &m.NotifyEmail, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Merchant{}, apperr.NotFound("merchant not found")
	}
	if err != nil {
		return Merchant{}, fmt.Errorf("get merchant: %w", err)
	}
	return m, nil
}

func (r *Repo) GetPricingRule(ctx context.Context, merchantID uuid.UUID) (PricingRule, error) {
	var (
		rule  PricingRule
		coeff []byte
		surge []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT merchant_id, base_fee, per_km, per_floor, volume_coeff, surge_rules
		FROM pricing_rules WHERE merchant_id = $1`,
		merchantID,
	).Scan(&rule.MerchantID, &rule.BaseFee, &rule.PerKm, &rule.PerFloor, &coeff, &surge)
	if errors.Is(err, pgx.ErrNoRows) {
		return PricingRule{}, apperr.NotFound("pricing rule not found")
	}
	if err != nil {
		return PricingRule{}, fmt.Errorf("get pricing rule: %w", err)
	}

	if err := json.Unmarshal(coeff, &rule.VolumeCoeff); err != nil {
		return PricingRule{}, fmt.Errorf("decode volume coeff: %w", err)
	}
	rule.SurgeRules = surge
	return rule, nil
}

func (r *Repo) UpsertPricingRule(ctx context.Context, rule PricingRule) (PricingRule, error) {
	coeff, err := json.Marshal(rule.VolumeCoeff)
	if err != nil {
		return PricingRule{}, fmt.Errorf("marshal volume coeff: %w", err)
	}
	surge := rule.SurgeRules
	if len(surge) == 0 {
		surge = json.RawMessage(`{}`)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO pricing_rules (merchant_id, base_fee, per_km, per_floor, volume_coeff, surge_rules)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (merchant_id) DO UPDATE SET
			base_fee = EXCLUDED.base_fee,
			per_km = EXCLUDED.per_km,
			per_floor = EXCLUDED.per_floor,
			volume_coeff = EXCLUDED.volume_coeff,
			surge_rules = EXCLUDED.surge_rules`,
		rule.MerchantID, rule.BaseFee, rule.PerKm, rule.PerFloor, coeff, surge,
	)
	if err != nil {
		return PricingRule{}, fmt.Errorf("upsert pricing rule: %w", err)
	}
	return rule, nil
}
