// Package cache provides read-through repository decorators backed by the
// in-process cache store. They sit between the sync path and postgres so the
// per-tick team lookups do not hit the database twice per fixture.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/champi-dev/live-football/internal/domain/team"
	basecache "github.com/champi-dev/live-football/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
	ttl   time.Duration
}

func NewTeamRepository(next team.Repository, cache *basecache.Store, ttl time.Duration) *TeamRepository {
	return &TeamRepository{next: next, cache: cache, ttl: ttl}
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	key := teamByIDKey(id)
	v, err := r.cache.GetOrLoad(ctx, key, r.ttl, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, teamByIDKey(item.ID))
	return nil
}

func (r *TeamRepository) SearchByName(ctx context.Context, query string, limit int) ([]team.Team, error) {
	return r.next.SearchByName(ctx, query, limit)
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

func teamByIDKey(id int64) string {
	return "team:id:" + strconv.FormatInt(id, 10)
}
