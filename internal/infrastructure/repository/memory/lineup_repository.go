package memory

import (
	"context"
	"sync"

	"github.com/champi-dev/live-football/internal/domain/lineup"
)

type LineupRepository struct {
	mu      sync.RWMutex
	byMatch map[int64][]lineup.Entry
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{byMatch: make(map[int64][]lineup.Entry)}
}

func (r *LineupRepository) ListByMatch(_ context.Context, matchID int64) ([]lineup.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byMatch[matchID]
	out := make([]lineup.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *LineupRepository) ReplaceForMatch(_ context.Context, matchID int64, entries []lineup.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]lineup.Entry, len(entries))
	copy(rows, entries)
	r.byMatch[matchID] = rows
	return nil
}
