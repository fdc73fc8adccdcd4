package ledger

import (
	"context"
	"sync"

	"github.com/cimillas/delivery-scheduler/internal/domain"
)

type slotKey struct {
	date string
	slot string
}

// Memory is a mutex-guarded in-process ledger for single-instance
// deployments and tests. Counters are created at zero on first touch and
// persist until the process exits.
type Memory struct {
	mu         sync.Mutex
	dateCounts map[string]int
	slotCounts map[slotKey]int
}

func NewMemory() *Memory {
	return &Memory{
		dateCounts: make(map[string]int),
		slotCounts: make(map[slotKey]int),
	}
}

func (m *Memory) TryReserve(ctx context.Context, date, slotLabel string, dailyLimit, slotLimit int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := slotKey{date: date, slot: slotLabel}
	if m.dateCounts[date] >= dailyLimit {
		return domain.ErrDateFullyBooked
	}
	if m.slotCounts[key] >= slotLimit {
		return domain.ErrSlotFullyBooked
	}
	m.dateCounts[date]++
	m.slotCounts[key]++
	return nil
}

func (m *Memory) Release(ctx context.Context, date, slotLabel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dateCounts[date] > 0 {
		m.dateCounts[date]--
	}
	key := slotKey{date: date, slot: slotLabel}
	if m.slotCounts[key] > 0 {
		m.slotCounts[key]--
	}
	return nil
}

func (m *Memory) DateCount(ctx context.Context, date string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dateCounts[date], nil
}

func (m *Memory) SlotCount(ctx context.Context, date, slotLabel string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slotCounts[slotKey{date: date, slot: slotLabel}], nil
}
