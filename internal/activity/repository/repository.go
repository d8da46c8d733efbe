// Package repository persists the append-only activity feed. Entries are
// never updated or deleted; newest-first is the canonical read order.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Activity types for the feed. The column is free-form text so integrations
// can add their own types without a migration.
const (
	TypeLeadCreated      = "lead_created"
	TypeBookingCreated   = "booking_created"
	TypeQuoteGenerated   = "quote_generated"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCancelled = "booking_cancelled"
	TypePaymentConfirmed = "payment_confirmed"
	TypePaymentFailed    = "payment_failed"
	TypeCalendarBlocked  = "calendar_blocked"
)

// Activity is one immutable feed entry. EntityID/EntityType weakly reference
// the subject record for display; they are not an ownership relation.
type Activity struct {
	ID          uuid.UUID
	MerchantID  uuid.UUID
	Type        string
	Description string
	EntityID    *uuid.UUID
	EntityType  *string
	CreatedAt   time.Time
}

// DefaultListLimit is the feed page size when the caller does not specify one.
const DefaultListLimit = 10

// Repository is the storage contract for the activity feed.
type Repository interface {
	Create(ctx context.Context, a Activity) (Activity, error)
	ListRecent(ctx context.Context, merchantID uuid.UUID, limit int) ([]Activity, error)
}

// Execer is the subset of pgx executors Insert accepts, so other modules can
// append feed entries inside their own transactions.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert writes one activity using the given executor. Callers that must
// guarantee the append lands with their primary write pass their open tx.
func Insert(ctx context.Context, db Execer, a Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := db.Exec(ctx, `
		INSERT INTO activities (id, merchant_id, type, description, entity_id, entity_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.MerchantID, a.Type, a.Description, a.EntityID, a.EntityType, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create appends one activity entry.
func (r *Repo) Create(ctx context.Context, a Activity) (Activity, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	if err := Insert(ctx, r.pool, a); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// ListRecent returns the newest entries for a merchant, descending by
// creation time. Entries backdated by integrations still sort by timestamp,
// not by insertion order.
func (r *Repo) ListRecent(ctx context.Context, merchantID uuid.UUID, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, merchant_id, type, description, entity_id, entity_type, created_at
		FROM activities
		WHERE merchant_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		merchantID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var items []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.MerchantID, &a.Type, &a.Description, &a.EntityID, &a.EntityType, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
