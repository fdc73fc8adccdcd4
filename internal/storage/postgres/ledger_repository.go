package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cimillas/delivery-scheduler/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository is the durable capacity ledger. Both counters are bumped
// by single conditional statements inside one transaction, so a racing
// caller either commits both increments under their limits or observes a
// clean capacity failure with nothing mutated.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) TryReserve(ctx context.Context, date, slotLabel string, dailyLimit, slotLimit int) error {
	// A limit of zero admits nothing; the conditional upsert below would
	// still insert the first row, so veto here.
	if dailyLimit <= 0 {
		return domain.ErrDateFullyBooked
	}
	if slotLimit <= 0 {
		return domain.ErrSlotFullyBooked
	}

	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		const reserveDate = `
INSERT INTO date_counters AS c (day, booked)
VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE SET booked = c.booked + 1
WHERE c.booked < $2
RETURNING booked`

		var booked int
		if err := r.queryRow(txCtx, reserveDate, date, dailyLimit).Scan(&booked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrDateFullyBooked
			}
			return unavailable("reserve date counter", err)
		}

		const reserveSlot = `
INSERT INTO slot_counters AS c (day, slot, booked)
VALUES ($1, $2, 1)
ON CONFLICT (day, slot) DO UPDATE SET booked = c.booked + 1
WHERE c.booked < $3
RETURNING booked`

		if err := r.queryRow(txCtx, reserveSlot, date, slotLabel, slotLimit).Scan(&booked); err != nil {
			// Rolls back the date increment too.
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrSlotFullyBooked
			}
			return unavailable("reserve slot counter", err)
		}
		return nil
	})
	if err != nil {
		if domain.CapacityExhausted(err) || errors.Is(err, domain.ErrLedgerUnavailable) {
			return err
		}
		return unavailable("reserve", err)
	}
	return nil
}

func (r *LedgerRepository) Release(ctx context.Context, date, slotLabel string) error {
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		const releaseDate = `
UPDATE date_counters SET booked = GREATEST(booked - 1, 0) WHERE day = $1`
		if _, err := r.exec(txCtx, releaseDate, date); err != nil {
			return unavailable("release date counter", err)
		}

		const releaseSlot = `
UPDATE slot_counters SET booked = GREATEST(booked - 1, 0) WHERE day = $1 AND slot = $2`
		if _, err := r.exec(txCtx, releaseSlot, date, slotLabel); err != nil {
			return unavailable("release slot counter", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrLedgerUnavailable) {
		return unavailable("release", err)
	}
	return err
}

func (r *LedgerRepository) DateCount(ctx context.Context, date string) (int, error) {
	const query = `SELECT COALESCE(SUM(booked), 0) FROM date_counters WHERE day = $1`
	var count int
	if err := r.queryRow(ctx, query, date).Scan(&count); err != nil {
		return 0, unavailable("date count", err)
	}
	return count, nil
}

func (r *LedgerRepository) SlotCount(ctx context.Context, date, slotLabel string) (int, error) {
	const query = `SELECT COALESCE(SUM(booked), 0) FROM slot_counters WHERE day = $1 AND slot = $2`
	var count int
	if err := r.queryRow(ctx, query, date, slotLabel).Scan(&count); err != nil {
		return 0, unavailable("slot count", err)
	}
	return count, nil
}

// unavailable tags a storage failure as a fatal ledger outage. Booking
// attempts must fail rather than proceed unchecked.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrLedgerUnavailable, err)
}

func (r *LedgerRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *LedgerRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
