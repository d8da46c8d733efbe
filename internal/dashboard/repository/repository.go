// Package repository aggregates dashboard counters. The queries are
// independent, so a snapshot fans them out concurrently.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Window is the trailing period compared against the one before it.
const Window = 30 * 24 * time.Hour

// Stats holds raw counters for one merchant. Curr covers the trailing
// window ending at the snapshot time, Prev the window before that.
type Stats struct {
	TotalLeads        int64
	ConfirmedBookings int64
	Revenue           int64

	LeadsCurr     int64
	LeadsPrev     int64
	ConfirmedCurr int64
	ConfirmedPrev int64
	RevenueCurr   int64
	RevenuePrev   int64
}

// Repository is the storage contract for dashboard aggregates.
type Repository interface {
	Snapshot(ctx context.Context, merchantID uuid.UUID, now time.Time) (Stats, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Snapshot(ctx context.Context, merchantID uuid.UUID, now time.Time) (Stats, error) {
	windowStart := now.Add(-Window)
	prevStart := now.Add(-2 * Window)

	var stats Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.pool.QueryRow(gctx, `
			SELECT count(*),
				count(*) FILTER (WHERE created_at >= $2),
				count(*) FILTER (WHERE created_at >= $3 AND created_at < $2)
			FROM leads WHERE merchant_id = $1`,
			merchantID, windowStart, prevStart,
		).Scan(&stats.TotalLeads, &stats.LeadsCurr, &stats.LeadsPrev)
	})

	g.Go(func() error {
		return r.pool.QueryRow(gctx, `
			SELECT count(*),
				count(*) FILTER (WHERE b.created_at >= $2),
				count(*) FILTER (WHERE b.created_at >= $3 AND b.created_at < $2)
			FROM bookings b
			JOIN leads l ON l.id = b.lead_id
			WHERE l.merchant_id = $1 AND b.status = 'confirmed'`,
			merchantID, windowStart, prevStart,
		).Scan(&stats.ConfirmedBookings, &stats.ConfirmedCurr, &stats.ConfirmedPrev)
	})

	g.Go(func() error {
		return r.pool.QueryRow(gctx, `
			SELECT coalesce(sum(p.amount), 0),
				coalesce(sum(p.amount) FILTER (WHERE p.created_at >= $2), 0),
				coalesce(sum(p.amount) FILTER (WHERE p.created_at >= $3 AND p.created_at < $2), 0)
			FROM payments p
			JOIN bookings b ON b.id = p.booking_id
			JOIN leads l ON l.id = b.lead_id
			WHERE l.merchant_id = $1 AND p.status = 'completed'`,
			merchantID, windowStart, prevStart,
		).Scan(&stats.Revenue, &stats.RevenueCurr, &stats.RevenuePrev)
	})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("dashboard snapshot: %w", err)
	}
	return stats, nil
}
