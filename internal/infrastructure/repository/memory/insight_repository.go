package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/champi-dev/live-football/internal/domain/insight"
)

type InsightRepository struct {
	mu      sync.RWMutex
	byMatch map[int64][]insight.Insight
}

func NewInsightRepository() *InsightRepository {
	return &InsightRepository{byMatch: make(map[int64][]insight.Insight)}
}

func (r *InsightRepository) Insert(_ context.Context, item insight.Insight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byMatch[item.MatchID] = append(r.byMatch[item.MatchID], item)
	return nil
}

func (r *InsightRepository) ListByMatch(_ context.Context, matchID int64) ([]insight.Insight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byMatch[matchID]
	out := make([]insight.Insight, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
