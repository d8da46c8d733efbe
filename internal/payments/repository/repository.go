// Package repository persists deposit payments. Completion and failure are
// transactional: the payment row, the booking's deposit stamp, and the
// activity entry land together or not at all.
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
	"moveops_backend/platform/apperr"
)

// Payment statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Payment is a deposit charge against a booking. MerchantID is derived
// through the booking's lead.
type Payment struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	MerchantID     uuid.UUID
	Amount         int64
	Status         string
	TossPaymentKey *string
	TossOrderID    *string
	CreatedAt      time.Time
}

// DefaultListLimit caps payment listings when no limit is given.
const DefaultListLimit = 50

// Repository is the storage contract for payments.
type Repository interface {
	// Create records a pending payment. The booking must belong to the
	// merchant.
	Create(ctx context.Context, merchantID uuid.UUID, p Payment) (Payment, error)
	GetByOrderID(ctx context.Context, tossOrderID string) (Payment, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) ([]Payment, error)
	// MarkCompleted finalizes a pending payment: status, gateway key, the
	// booking's deposit stamp, and the feed entry in one transaction.
	MarkCompleted(ctx context.Context, paymentID uuid.UUID, paymentKey string) (Payment, error)
	// MarkFailed records a gateway failure with its feed entry.
	MarkFailed(ctx context.Context, paymentID uuid.UUID) (Payment, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, merchantID uuid.UUID, p Payment) (Payment, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Status = StatusPending
	p.CreatedAt = time.Now()

	// The booking join both verifies ownership and resolves the tenant.
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT l.merchant_id FROM bookings b
		JOIN leads l ON l.id = b.lead_id
		WHERE b.id = $1 AND l.merchant_id = $2`,
		p.BookingID, merchantID,
	).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, apperr.NotFound("booking not found")
	}
	if err != nil {
		return Payment{}, fmt.Errorf("verify booking: %w", err)
	}
	p.MerchantID = owner

	_, err = r.pool.Exec(ctx, `
		INSERT INTO payments (id, booking_id, amount, status, toss_payment_key, toss_order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.BookingID, p.Amount, p.Status, p.TossPaymentKey, p.TossOrderID, p.CreatedAt,
	)
	if err != nil {
		return Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	return p, nil
}

func (r *Repo) GetByOrderID(ctx context.Context, tossOrderID string) (Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx, selectPayment+`
		WHERE p.toss_order_id = $1`, tossOrderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, apperr.NotFound("payment not found")
	}
	if err != nil {
		return Payment{}, fmt.Errorf("get payment by order: %w", err)
	}
	return p, nil
}

func (r *Repo) ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) ([]Payment, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.pool.Query(ctx, selectPayment+`
		WHERE l.merchant_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2`,
		merchantID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *Repo) MarkCompleted(ctx context.Context, paymentID uuid.UUID, paymentKey string) (Payment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Payment{}, fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanPayment(tx.QueryRow(ctx, selectPayment+`
		WHERE p.id = $1
		FOR UPDATE OF p`, paymentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, apperr.NotFound("payment not found")
	}
	if err != nil {
		return Payment{}, fmt.Errorf("lock payment: %w", err)
	}
	if p.Status != StatusPending {
		return Payment{}, apperr.Conflict(fmt.Sprintf("payment is already %s", p.Status))
	}

	p.Status = StatusCompleted
	p.TossPaymentKey = &paymentKey
	_, err = tx.Exec(ctx, `
		UPDATE payments SET status = $2, toss_payment_key = $3 WHERE id = $1`,
		p.ID, p.Status, paymentKey,
	)
	if err != nil {
		return Payment{}, fmt.Errorf("complete payment: %w", err)
	}

	txID := paymentKey
	_, err = tx.Exec(ctx, `
		UPDATE bookings SET deposit_amount = $2, deposit_tx_id = $3 WHERE id = $1`,
		p.BookingID, p.Amount, txID,
	)
	if err != nil {
		return Payment{}, fmt.Errorf("stamp booking deposit: %w", err)
	}

	entityType := "payment"
	if err := activityrepo.Insert(ctx, tx, activityrepo.Activity{
		MerchantID:  p.MerchantID,
		Type:        activityrepo.TypePaymentConfirmed,
		Description: fmt.Sprintf("Deposit of %d KRW received", p.Amount),
		EntityID:    &p.ID,
		EntityType:  &entityType,
	}); err != nil {
		return Payment{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Payment{}, fmt.Errorf("commit payment tx: %w", err)
	}
	return p, nil
}

func (r *Repo) MarkFailed(ctx context.Context, paymentID uuid.UUID) (Payment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Payment{}, fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanPayment(tx.QueryRow(ctx, selectPayment+`
		WHERE p.id = $1
		FOR UPDATE OF p`, paymentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, apperr.NotFound("payment not found")
	}
	if err != nil {
		return Payment{}, fmt.Errorf("lock payment: %w", err)
	}
	if p.Status != StatusPending {
		return Payment{}, apperr.Conflict(fmt.Sprintf("payment is already %s", p.Status))
	}

	p.Status = StatusFailed
	_, err = tx.Exec(ctx, `UPDATE payments SET status = $2 WHERE id = $1`, p.ID, p.Status)
	if err != nil {
		return Payment{}, fmt.Errorf("fail payment: %w", err)
	}

	entityType := "payment"
	if err := activityrepo.Insert(ctx, tx, activityrepo.Activity{
		MerchantID:  p.MerchantID,
		Type:        activityrepo.TypePaymentFailed,
		Description: fmt.Sprintf("Deposit payment of %d KRW failed", p.Amount),
		EntityID:    &p.ID,
		EntityType:  &entityType,
	}); err != nil {
		return Payment{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Payment{}, fmt.Errorf("commit payment tx: %w", err)
	}
	return p, nil
}

const selectPayment = `
	SELECT p.id, p.booking_id, l.merchant_id, p.amount, p.status,
		p.toss_payment_key, p.toss_order_id, p.created_at
	FROM payments p
	JOIN bookings b ON b.id = p.booking_id
	JOIN leads l ON l.id = b.lead_id`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.BookingID, &p.MerchantID, &p.Amount, &p.Status,
		&p.TossPaymentKey, &p.TossOrderID, &p.CreatedAt)
	return p, err
}
