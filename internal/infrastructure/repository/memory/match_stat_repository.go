package memory

import (
	"context"
	"sync"

	"github.com/champi-dev/live-football/internal/domain/matchstat"
)

type MatchStatRepository struct {
	mu      sync.RWMutex
	byMatch map[int64]matchstat.Stats
}

func NewMatchStatRepository() *MatchStatRepository {
	return &MatchStatRepository{byMatch: make(map[int64]matchstat.Stats)}
}

func (r *MatchStatRepository) GetByMatch(_ context.Context, matchID int64) (matchstat.Stats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byMatch[matchID]
	return item, ok, nil
}

func (r *MatchStatRepository) Upsert(_ context.Context, item matchstat.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byMatch[item.MatchID] = item
	return nil
}
