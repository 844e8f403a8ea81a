package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/champi-dev/live-football/internal/domain/follow"
)

type followKey struct {
	userID string
	teamID int64
}

type FollowRepository struct {
	mu      sync.RWMutex
	follows map[followKey]follow.Follow
}

func NewFollowRepository() *FollowRepository {
	return &FollowRepository{follows: make(map[followKey]follow.Follow)}
}

func (r *FollowRepository) Upsert(_ context.Context, item follow.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := followKey{userID: item.UserID, teamID: item.TeamID}
	if existing, ok := r.follows[key]; ok {
		item.CreatedAt = existing.CreatedAt
	}
	r.follows[key] = item
	return nil
}

func (r *FollowRepository) Delete(_ context.Context, userID string, teamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.follows, followKey{userID: userID, teamID: teamID})
	return nil
}

func (r *FollowRepository) ListByUser(_ context.Context, userID string) ([]follow.Follow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]follow.Follow, 0)
	for key, item := range r.follows {
		if key.userID == userID {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].TeamID < items[j].TeamID
	})
	return items, nil
}
