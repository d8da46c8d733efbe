// Package repository persists bookings. Status changes and quote upserts
// co-write activity feed entries in the same transaction.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	activityrepo "moveops_backend/internal/activity/repository"
	"moveops_backend/internal/bookings/domain"
	"moveops_backend/platform/apperr"
)

// Booking is a job on the merchant's calendar. MerchantID is derived through
// the owning lead; bookings do not carry their own tenant column.
type Booking struct {
	ID            uuid.UUID
	LeadID        uuid.UUID
	MerchantID    uuid.UUID
	PriceMin      *int64
	PriceMax      *int64
	SlotStart     *time.Time
	SlotEnd       *time.Time
	Status        domain.Status
	DepositAmount *int64
	DepositTxID   *string
	CreatedAt     time.Time
}

// QuoteParams carries a computed price band for the atomic quote upsert.
type QuoteParams struct {
	LeadID   uuid.UUID
	PriceMin int64
	PriceMax int64
}

// SlotParams optionally stamps slot times during a transition.
type SlotParams struct {
	SlotStart *time.Time
	SlotEnd   *time.Time
}

// DefaultListLimit caps booking listings when no limit is given.
const DefaultListLimit = 50

// ProvisionalSlotDuration sizes the placeholder slot stamped on a booking's
// first quote. The real slot replaces it on confirmation.
const ProvisionalSlotDuration = 2 * time.Hour

// Repository is the storage contract for bookings.
type Repository interface {
	// UpsertQuote writes a quoted booking for a lead: insert on first
	// quote, price update on re-quote. Returns the booking and whether a
	// new row was created. A lead whose booking is confirmed or cancelled
	// yields a conflict; the guard and the write are one statement so two
	// concurrent quotes for the same lead cannot both insert.
	UpsertQuote(ctx context.Context, merchantID uuid.UUID, params QuoteParams) (Booking, bool, error)
	GetByID(ctx context.Context, merchantID, id uuid.UUID) (Booking, error)
	GetByLeadID(ctx context.Context, merchantID, leadID uuid.UUID) (Booking, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, status domain.Status, limit int) ([]Booking, error)
	// ListActiveBetween returns non-cancelled bookings whose slot overlaps
	// [from, to).
	ListActiveBetween(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]Booking, error)
	// Transition moves a booking to a new status under a row lock,
	// stamping slot times when provided. Illegal transitions yield a
	// conflict.
	Transition(ctx context.Context, merchantID, id uuid.UUID, to domain.Status, slot SlotParams) (Booking, error)
	// SetDeposit stamps a completed deposit on a booking.
	SetDeposit(ctx context.Context, bookingID uuid.UUID, amount int64, txID string) error
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) UpsertQuote(ctx context.Context, merchantID uuid.UUID, params QuoteParams) (Booking, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Booking{}, false, fmt.Errorf("begin quote tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		b        Booking
		inserted bool
	)
	// A first quote gets a provisional slot (now, now+2h) as a scheduling
	// placeholder; re-quotes leave the existing slot alone.
	now := time.Now()
	err = tx.QueryRow(ctx, `
		INSERT INTO bookings (id, lead_id, price_min, price_max, slot_start, slot_end, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'quoted', $7)
		ON CONFLICT (lead_id) DO UPDATE SET
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			status = 'quoted'
		WHERE bookings.status NOT IN ('confirmed', 'cancelled')
		RETURNING id, lead_id, price_min, price_max, slot_start, slot_end,
			status, deposit_amount, deposit_tx_id, created_at, (xmax = 0)`,
		uuid.New(), params.LeadID, params.PriceMin, params.PriceMax,
		now, now.Add(ProvisionalSlotDuration), now,
	).Scan(&b.ID, &b.LeadID, &b.PriceMin, &b.PriceMax, &b.SlotStart, &b.SlotEnd,
		&b.Status, &b.DepositAmount, &b.DepositTxID, &b.CreatedAt, &inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		// The DO UPDATE WHERE clause filtered the row out: the existing
		// booking is confirmed or cancelled.
		return Booking{}, false, apperr.Conflict("booking is already confirmed or cancelled")
	}
	if err != nil {
		return Booking{}, false, fmt.Errorf("upsert quote: %w", err)
	}
	b.MerchantID = merchantID

	entityType := "booking"
	if inserted {
		if err := activityrepo.Insert(ctx, tx, activityrepo.Activity{
			MerchantID:  merchantID,
			Type:        activityrepo.TypeBookingCreated,
			Description: "Tentative booking created from quote",
			EntityID:    &b.ID,
			EntityType:  &entityType,
		}); err != nil {
			return Booking{}, false, err
		}
	}
	if err := activityrepo.Insert(ctx, tx, activityrepo.Activity{
		MerchantID:  merchantID,
		Type:        activityrepo.TypeQuoteGenerated,
		Description: fmt.Sprintf("Quote generated: %s - %s KRW", formatKRW(params.PriceMin), formatKRW(params.PriceMax)),
		EntityID:    &b.ID,
		EntityType:  &entityType,
	}); err != nil {
		return Booking{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, false, fmt.Errorf("commit quote tx: %w", err)
	}
	return b, inserted, nil
}

func (r *Repo) GetByID(ctx context.Context, merchantID, id uuid.UUID) (Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, selectBooking+`
		WHERE b.id = $1 AND l.merchant_id = $2`, id, merchantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, apperr.NotFound("booking not found")
	}
	if err != nil {
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *Repo) GetByLeadID(ctx context.Context, merchantID, leadID uuid.UUID) (Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, selectBooking+`
		WHERE b.lead_id = $1 AND l.merchant_id = $2`, leadID, merchantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, apperr.NotFound("booking not found")
	}
	if err != nil {
		return Booking{}, fmt.Errorf("get booking by lead: %w", err)
	}
	return b, nil
}

func (r *Repo) ListByMerchant(ctx context.Context, merchantID uuid.UUID, status domain.Status, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := selectBooking + ` WHERE l.merchant_id = $1`
	args := []any{merchantID}
	if status != "" {
		query += ` AND b.status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY b.created_at DESC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *Repo) ListActiveBetween(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, selectBooking+`
		WHERE l.merchant_id = $1
		  AND b.status <> 'cancelled'
		  AND b.slot_start < $3
		  AND b.slot_end > $2
		ORDER BY b.slot_start`,
		merchantID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *Repo) Transition(ctx context.Context, merchantID, id uuid.UUID, to domain.Status, slot SlotParams) (Booking, error) {
	if !to.Valid() {
		return Booking{}, apperr.Validation(fmt.Sprintf("unknown booking status %q", to))
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("begin transition tx: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := scanBooking(tx.QueryRow(ctx, selectBooking+`
		WHERE b.id = $1 AND l.merchant_id = $2
		FOR UPDATE OF b`, id, merchantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, apperr.NotFound("booking not found")
	}
	if err != nil {
		return Booking{}, fmt.Errorf("lock booking: %w", err)
	}

	if !domain.CanTransition(b.Status, to) {
		return Booking{}, apperr.Conflict(fmt.Sprintf("cannot move booking from %s to %s", b.Status, to))
	}

	if slot.SlotStart != nil {
		b.SlotStart = slot.SlotStart
	}
	if slot.SlotEnd != nil {
		b.SlotEnd = slot.SlotEnd
	}
	b.Status = to

	_, err = tx.Exec(ctx, `
		UPDATE bookings SET status = $2, slot_start = $3, slot_end = $4
		WHERE id = $1`,
		b.ID, b.Status, b.SlotStart, b.SlotEnd,
	)
	if err != nil {
		return Booking{}, fmt.Errorf("update booking status: %w", err)
	}

	if activityType, description := transitionActivity(to); activityType != "" {
		entityType := "booking"
		if err := activityrepo.Insert(ctx, tx, activityrepo.Activity{
			MerchantID:  merchantID,
			Type:        activityType,
			Description: description,
			EntityID:    &b.ID,
			EntityType:  &entityType,
		}); err != nil {
			return Booking{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, fmt.Errorf("commit transition tx: %w", err)
	}
	return b, nil
}

func (r *Repo) SetDeposit(ctx context.Context, bookingID uuid.UUID, amount int64, txID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bookings SET deposit_amount = $2, deposit_tx_id = $3
		WHERE id = $1`,
		bookingID, amount, txID,
	)
	if err != nil {
		return fmt.Errorf("set deposit: %w", err)
	}
	return nil
}

const selectBooking = `
	SELECT b.id, b.lead_id, l.merchant_id, b.price_min, b.price_max,
		b.slot_start, b.slot_end, b.status, b.deposit_amount, b.deposit_tx_id, b.created_at
	FROM bookings b
	JOIN leads l ON l.id = b.lead_id`

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.LeadID, &b.MerchantID, &b.PriceMin, &b.PriceMax,
		&b.SlotStart, &b.SlotEnd, &b.Status, &b.DepositAmount, &b.DepositTxID, &b.CreatedAt)
	return b, err
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func transitionActivity(to domain.Status) (string, string) {
	switch to {
	case domain.StatusConfirmed:
		return activityrepo.TypeBookingConfirmed, "Booking confirmed"
	case domain.StatusCancelled:
		return activityrepo.TypeBookingCancelled, "Booking cancelled"
	default:
		return "", ""
	}
}

// formatKRW groups digits in thousands for feed messages.
func formatKRW(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	negative := false
	if len(s) > 0 && s[0] == '-' {
		negative = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if negative {
		return "-" + s
	}
	return s
}
