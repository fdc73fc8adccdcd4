// Package redisledger backs the capacity ledger with Redis counters. The
// reserve protocol is an optimistic WATCH/MULTI compare-and-swap loop: both
// keys are watched, limits checked, and the paired increments only commit if
// no other client touched either key in between.
package redisledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/cimillas/delivery-scheduler/internal/domain"
	"github.com/redis/go-redis/v9"
)

// maxCASRetries bounds the retry loop under contention. Each retry is one
// round trip, so the bound also keeps reserve latency predictable.
const maxCASRetries = 32

type Ledger struct {
	client *redis.Client
}

func New(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

func dateKey(date string) string {
	return fmt.Sprintf("booked:date:%s", date)
}

func slotKey(date, slot string) string {
	return fmt.Sprintf("booked:slot:%s:%s", date, slot)
}

func (l *Ledger) TryReserve(ctx context.Context, date, slotLabel string, dailyLimit, slotLimit int) error {
	if dailyLimit <= 0 {
		return domain.ErrDateFullyBooked
	}
	if slotLimit <= 0 {
		return domain.ErrSlotFullyBooked
	}

	dk := dateKey(date)
	sk := slotKey(date, slotLabel)

	for i := 0; i < maxCASRetries; i++ {
		err := l.client.Watch(ctx, func(tx *redis.Tx) error {
			dateCount, err := intValue(tx.Get(ctx, dk))
			if err != nil {
				return err
			}
			slotCount, err := intValue(tx.Get(ctx, sk))
			if err != nil {
				return err
			}

			if dateCount >= dailyLimit {
				return domain.ErrDateFullyBooked
			}
			if slotCount >= slotLimit {
				return domain.ErrSlotFullyBooked
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Incr(ctx, dk)
				pipe.Incr(ctx, sk)
				return nil
			})
			return err
		}, dk, sk)

		if errors.Is(err, redis.TxFailedErr) {
			// Lost the race; re-read and try again.
			continue
		}
		if err != nil && !domain.CapacityExhausted(err) {
			return unavailable("reserve", err)
		}
		return err
	}
	return unavailable("reserve", errors.New("contention retries exhausted"))
}

func (l *Ledger) Release(ctx context.Context, date, slotLabel string) error {
	dk := dateKey(date)
	sk := slotKey(date, slotLabel)

	for i := 0; i < maxCASRetries; i++ {
		err := l.client.Watch(ctx, func(tx *redis.Tx) error {
			dateCount, err := intValue(tx.Get(ctx, dk))
			if err != nil {
				return err
			}
			slotCount, err := intValue(tx.Get(ctx, sk))
			if err != nil {
				return err
			}

			// Floor at zero: decrement only counters that are positive.
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if dateCount > 0 {
					pipe.Decr(ctx, dk)
				}
				if slotCount > 0 {
					pipe.Decr(ctx, sk)
				}
				return nil
			})
			return err
		}, dk, sk)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return unavailable("release", err)
		}
		return nil
	}
	return unavailable("release", errors.New("contention retries exhausted"))
}

func (l *Ledger) DateCount(ctx context.Context, date string) (int, error) {
	count, err := intValue(l.client.Get(ctx, dateKey(date)))
	if err != nil {
		return 0, unavailable("date count", err)
	}
	return count, nil
}

func (l *Ledger) SlotCount(ctx context.Context, date, slotLabel string) (int, error) {
	count, err := intValue(l.client.Get(ctx, slotKey(date, slotLabel)))
	if err != nil {
		return 0, unavailable("slot count", err)
	}
	return count, nil
}

// intValue reads a counter, treating a missing key as zero.
func intValue(cmd *redis.StringCmd) (int, error) {
	n, err := cmd.Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrLedgerUnavailable, err)
}
