package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/champi-dev/live-football/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[int64]match.Match
}

func NewMatchRepository(matches ...match.Match) *MatchRepository {
	byID := make(map[int64]match.Match, len(matches))
	for _, item := range matches {
		byID[item.ID] = item
	}

	return &MatchRepository{matches: byID}
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[id]
	return item, ok, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Same conflict semantics as the postgres upsert: identity and
	// scheduling fields never change after the first insert.
	if stored, ok := r.matches[item.ID]; ok {
		item.LeagueID = stored.LeagueID
		item.LeagueName = stored.LeagueName
		item.HomeTeamID = stored.HomeTeamID
		item.AwayTeamID = stored.AwayTeamID
		item.KickoffAt = stored.KickoffAt
		item.Matchday = stored.Matchday
		item.Venue = stored.Venue
	}
	r.matches[item.ID] = item
	return nil
}

func (r *MatchRepository) List(_ context.Context, filter match.ListFilter) ([]match.Match, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]match.Match, 0)
	for _, item := range r.matches {
		if matchPassesFilter(item, filter) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].KickoffAt.Equal(matched[j].KickoffAt) {
			return matched[i].KickoffAt.Before(matched[j].KickoffAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit > 0 {
		start := (page - 1) * limit
		if start >= len(matched) {
			matched = nil
		} else {
			end := start + limit
			if end > len(matched) {
				end = len(matched)
			}
			matched = matched[start:end]
		}
	}

	out := make([]match.Match, len(matched))
	copy(out, matched)
	return out, total, nil
}

func (r *MatchRepository) ListLive(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	live := make([]match.Match, 0)
	for _, item := range r.matches {
		if match.IsInPlayStatus(item.Status) {
			live = append(live, item)
		}
	}

	sort.SliceStable(live, func(i, j int) bool {
		if !live[i].KickoffAt.Equal(live[j].KickoffAt) {
			return live[i].KickoffAt.Before(live[j].KickoffAt)
		}
		return live[i].ID < live[j].ID
	})
	return live, nil
}

func matchPassesFilter(item match.Match, filter match.ListFilter) bool {
	if filter.LeagueID != nil && item.LeagueID != *filter.LeagueID {
		return false
	}
	if filter.TeamID != nil && item.HomeTeamID != *filter.TeamID && item.AwayTeamID != *filter.TeamID {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if item.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Date != nil {
		day := filter.Date.UTC().Truncate(24 * time.Hour)
		kickoff := item.KickoffAt.UTC()
		if kickoff.Before(day) || !kickoff.Before(day.Add(24*time.Hour)) {
			return false
		}
	}
	if filter.DateFrom != nil && item.KickoffAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && item.KickoffAt.After(*filter.DateTo) {
		return false
	}
	return true
}
