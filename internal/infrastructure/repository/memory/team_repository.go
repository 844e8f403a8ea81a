package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/champi-dev/live-football/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[int64]team.Team
}

func NewTeamRepository(teams ...team.Team) *TeamRepository {
	byID := make(map[int64]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
	}

	return &TeamRepository{teams: byID}
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The major flag is fixed at first insert, like the postgres upsert.
	if existing, ok := r.teams[item.ID]; ok {
		item.IsMajor = existing.IsMajor
	}
	r.teams[item.ID] = item

	return nil
}

func (r *TeamRepository) SearchByName(_ context.Context, query string, limit int) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))

	matched := make([]team.Team, 0)
	for _, item := range r.teams {
		if teamMatchesQuery(item, needle) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].IsMajor != matched[j].IsMajor {
			return matched[i].IsMajor
		}
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func teamMatchesQuery(item team.Team, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(item.Name), needle) ||
		strings.Contains(strings.ToLower(item.ShortName), needle) ||
		strings.Contains(strings.ToLower(item.Tla), needle)
}
