package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *BookingRepository) Create(ctx context.Context, b domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, order_ref, delivery_date, delivery_slot, delivery_type, pickup_location, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		b.ID,
		b.OrderRef,
		b.Date,
		b.SlotLabel,
		b.Type,
		b.PickupLocation,
		b.Status,
		b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBookingExists
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByOrderRef(ctx context.Context, orderRef string) (domain.Booking, error) {
	const query = `
SELECT id, order_ref, delivery_date, delivery_slot, delivery_type, pickup_location, status, created_at, released_at
FROM bookings
WHERE order_ref = $1`

	b, err := scanBooking(r.queryRow(ctx, query, orderRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// MarkReleased flips a reserved booking to released exactly once. It reports
// false without error when the booking was already released, which is how
// duplicate cancel/refund events are absorbed.
func (r *BookingRepository) MarkReleased(ctx context.Context, orderRef string, at time.Time) (bool, error) {
	const stmt = `
UPDATE bookings
SET status = $1, released_at = $2
WHERE order_ref = $3 AND status = $4`

	tag, err := r.exec(ctx, stmt, domain.BookingStatusReleased, at, orderRef, domain.BookingStatusReserved)
	if err != nil {
		return false, fmt.Errorf("mark released: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListBetween returns bookings with a delivery date in [from, to], ordered
// for the admin calendar.
func (r *BookingRepository) ListBetween(ctx context.Context, from, to string) ([]domain.Booking, error) {
	const query = `
SELECT id, order_ref, delivery_date, delivery_slot, delivery_type, pickup_location, status, created_at, released_at
FROM bookings
WHERE delivery_date >= $1 AND delivery_date <= $2
ORDER BY delivery_date, delivery_slot, created_at`

	rows, err := r.query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.OrderRef,
		&b.Date,
		&b.SlotLabel,
		&b.Type,
		&b.PickupLocation,
		&b.Status,
		&b.CreatedAt,
		&b.ReleasedAt,
	)
	return b, err
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
