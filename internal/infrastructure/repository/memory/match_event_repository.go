package memory

import (
	"context"
	"sync"

	"github.com/champi-dev/live-football/internal/domain/matchevent"
)

type MatchEventRepository struct {
	mu      sync.RWMutex
	byMatch map[int64][]matchevent.Event
}

func NewMatchEventRepository() *MatchEventRepository {
	return &MatchEventRepository{byMatch: make(map[int64][]matchevent.Event)}
}

func (r *MatchEventRepository) ListByMatch(_ context.Context, matchID int64) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.byMatch[matchID]
	out := make([]matchevent.Event, len(events))
	copy(out, events)
	return out, nil
}

func (r *MatchEventRepository) ReplaceForMatch(_ context.Context, matchID int64, events []matchevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]matchevent.Event, len(events))
	copy(rows, events)
	r.byMatch[matchID] = rows
	return nil
}
