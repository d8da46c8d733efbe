// Package repository persists customer inquiries (leads). Every lead insert
// co-writes a feed entry in the same transaction so the activity feed never
// drifts from the lead table.
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

	activityrepo "moveops_backend/internal/activity/repository"
	"moveops_backend/platform/apperr"
)

// Lead channels.
const (
	ChannelKakao    = "kakao"
	ChannelWebsite  = "website"
	ChannelPhone    = "phone"
	ChannelReferral = "referral"
)

// Lead is a raw customer inquiry. Most fields are optional: an intake form or
// chat bot rarely captures everything, and the quote engine substitutes
// defaults for what is missing.
type Lead struct {
	ID          uuid.UUID
	MerchantID  uuid.UUID
	Channel     string
	Name        *string
	Phone       *string
	Origin      json.RawMessage
	Dest        json.RawMessage
	FloorFrom   *int
	FloorTo     *int
	ElevFrom    *bool
	ElevTo      *bool
	Volume      *string
	PreferredTS *time.Time
	CreatedAt   time.Time
}

// Patch holds the updatable lead fields. Nil means leave unchanged.
type Patch struct {
	Name        *string
	Phone       *string
	Origin      json.RawMessage
	Dest        json.RawMessage
	FloorFrom   *int
	FloorTo     *int
	ElevFrom    *bool
	ElevTo      *bool
	Volume      *string
	PreferredTS *time.Time
}

// DefaultListLimit caps lead listings when no limit is given.
const DefaultListLimit = 50

// Repository is the storage contract for leads.
type Repository interface {
	Create(ctx context.Context, lead Lead) (Lead, error)
	GetByID(ctx context.Context, merchantID, id uuid.UUID) (Lead, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) ([]Lead, error)
	Update(ctx context.Context, merchantID, id uuid.UUID, patch Patch) (Lead, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, lead Lead) (Lead, error) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	lead.CreatedAt = time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin lead tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO leads (id, merchant_id, channel, name, phone, origin, dest,
			floor_from, floor_to, elev_from, elev_to, volume, preferred_ts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		lead.ID, lead.MerchantID, lead.Channel, lead.Name, lead.Phone,
		lead.Origin, lead.Dest, lead.FloorFrom, lead.FloorTo,
		lead.ElevFrom, lead.ElevTo, lead.Volume, lead.PreferredTS, lead.CreatedAt,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}

	entityType := "lead"
	if err := activityrepo.Insert(ctx, tx, activityrepo.Activity{
		MerchantID:  lead.MerchantID,
		Type:        activityrepo.TypeLeadCreated,
		Description: leadActivityDescription(lead),
		EntityID:    &lead.ID,
		EntityType:  &entityType,
	}); err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit lead tx: %w", err)
	}
	return lead, nil
}

func (r *Repo) GetByID(ctx context.Context, merchantID, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, selectLead+` WHERE id = $1 AND merchant_id = $2`, id, merchantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *Repo) ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.pool.Query(ctx, selectLead+`
		WHERE merchant_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		merchantID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *Repo) Update(ctx context.Context, merchantID, id uuid.UUID, patch Patch) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name = COALESCE($3, name),
			phone = COALESCE($4, phone),
			origin = COALESCE($5, origin),
			dest = COALESCE($6, dest),
			floor_from = COALESCE($7, floor_from),
			floor_to = COALESCE($8, floor_to),
			elev_from = COALESCE($9, elev_from),
			elev_to = COALESCE($10, elev_to),
			volume = COALESCE($11, volume),
			preferred_ts = COALESCE($12, preferred_ts)
		WHERE id = $1 AND merchant_id = $2
		RETURNING id, merchant_id, channel, name, phone, origin, dest,
			floor_from, floor_to, elev_from, elev_to, volume, preferred_ts, created_at`,
		id, merchantID, patch.Name, patch.Phone, patch.Origin, patch.Dest,
		patch.FloorFrom, patch.FloorTo, patch.ElevFrom, patch.ElevTo,
		patch.Volume, patch.PreferredTS,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

const selectLead = `
	SELECT id, merchant_id, channel, name, phone, origin, dest,
		floor_from, floor_to, elev_from, elev_to, volume, preferred_ts, created_at
	FROM leads`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(&lead.ID, &lead.MerchantID, &lead.Channel, &lead.Name, &lead.Phone,
		&lead.Origin, &lead.Dest, &lead.FloorFrom, &lead.FloorTo,
		&lead.ElevFrom, &lead.ElevTo, &lead.Volume, &lead.PreferredTS, &lead.CreatedAt)
	return lead, err
}

func leadActivityDescription(lead Lead) string {
	name := "customer"
	if lead.Name != nil && *lead.Name != "" {
		name = *lead.Name
	}
	return fmt.Sprintf("New %s lead from %s", lead.Channel, name)
}
