package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/champi-dev/live-football/internal/domain/insight"
	"github.com/champi-dev/live-football/internal/domain/lineup"
	"github.com/champi-dev/live-football/internal/domain/match"
	"github.com/champi-dev/live-football/internal/domain/matchevent"
	"github.com/champi-dev/live-football/internal/domain/matchstat"
	"github.com/champi-dev/live-football/internal/domain/team"
	"github.com/champi-dev/live-football/internal/platform/cache"
)

const (
	cacheTTLListing = 30 * time.Second
	cacheTTLMatch   = time.Minute
	cacheTTLDay     = 24 * time.Hour

	maxListLimit     = 100
	defaultListLimit = 20
)

// MatchList is one page of matches.
type MatchList struct {
	Items []match.Match
	Page  match.Page
}

// MatchDetail is a match hydrated with teams and child collections.
type MatchDetail struct {
	Match    match.Match
	HomeTeam team.Team
	AwayTeam team.Team
	Events   []matchevent.Event
	Lineups  []lineup.Entry
	Stats    *matchstat.Stats
	Insights []insight.Insight
}

// MatchQueryService serves read paths over synced matches with short-TTL
// caching in front of the repositories.
type MatchQueryService struct {
	matchRepo   match.Repository
	teamRepo    team.Repository
	eventRepo   matchevent.Repository
	lineupRepo  lineup.Repository
	statRepo    matchstat.Repository
	insightRepo insight.Repository
	cache       *cache.Store
}

func NewMatchQueryService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	eventRepo matchevent.Repository,
	lineupRepo lineup.Repository,
	statRepo matchstat.Repository,
	insightRepo insight.Repository,
	store *cache.Store,
) *MatchQueryService {
	return &MatchQueryService{
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		eventRepo:   eventRepo,
		lineupRepo:  lineupRepo,
		statRepo:    statRepo,
		insightRepo: insightRepo,
		cache:       store,
	}
}

func (s *MatchQueryService) List(ctx context.Context, filter match.ListFilter) (MatchList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.List")
	defer span.End()

	filter = normalizeListFilter(filter)
	key := listCacheKey(filter)

	v, err := s.cache.GetOrLoad(ctx, key, cacheTTLListing, func(ctx context.Context) (any, error) {
		items, total, err := s.matchRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		return MatchList{
			Items: items,
			Page:  match.NewPage(filter.Page, filter.Limit, total),
		}, nil
	})
	if err != nil {
		return MatchList{}, err
	}

	out, _ := v.(MatchList)
	return out, nil
}

func (s *MatchQueryService) ListLive(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.ListLive")
	defer span.End()

	v, err := s.cache.GetOrLoad(ctx, "matches:live", cacheTTLListing, func(ctx context.Context) (any, error) {
		items, err := s.matchRepo.ListLive(ctx)
		if err != nil {
			return nil, fmt.Errorf("list live matches: %w", err)
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (s *MatchQueryService) GetMatch(ctx context.Context, id int64) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.GetMatch")
	defer span.End()

	if id <= 0 {
		return MatchDetail{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	key := fmt.Sprintf("match:%d", id)
	v, err := s.cache.GetOrLoad(ctx, key, cacheTTLMatch, func(ctx context.Context) (any, error) {
		return s.loadDetail(ctx, id)
	})
	if err != nil {
		return MatchDetail{}, err
	}

	out, _ := v.(MatchDetail)
	return out, nil
}

func (s *MatchQueryService) loadDetail(ctx context.Context, id int64) (MatchDetail, error) {
	item, found, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("load match %d: %w", id, err)
	}
	if !found {
		return MatchDetail{}, fmt.Errorf("%w: match %d", ErrNotFound, id)
	}

	detail := MatchDetail{Match: item}

	if home, ok, err := s.teamRepo.GetByID(ctx, item.HomeTeamID); err != nil {
		return MatchDetail{}, fmt.Errorf("load home team: %w", err)
	} else if ok {
		detail.HomeTeam = home
	}
	if away, ok, err := s.teamRepo.GetByID(ctx, item.AwayTeamID); err != nil {
		return MatchDetail{}, fmt.Errorf("load away team: %w", err)
	} else if ok {
		detail.AwayTeam = away
	}

	if detail.Events, err = s.eventRepo.ListByMatch(ctx, id); err != nil {
		return MatchDetail{}, fmt.Errorf("load match events: %w", err)
	}
	if detail.Lineups, err = s.lineupRepo.ListByMatch(ctx, id); err != nil {
		return MatchDetail{}, fmt.Errorf("load match lineups: %w", err)
	}

	stats, ok, err := s.statRepo.GetByMatch(ctx, id)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("load match statistics: %w", err)
	}
	if ok {
		detail.Stats = &stats
	}

	if detail.Insights, err = s.insightRepo.ListByMatch(ctx, id); err != nil {
		return MatchDetail{}, fmt.Errorf("load match insights: %w", err)
	}

	return detail, nil
}

// InvalidateMatch drops cached entries touching one match.
func (s *MatchQueryService) InvalidateMatch(ctx context.Context, id int64) {
	s.cache.Delete(ctx, fmt.Sprintf("match:%d", id))
	s.cache.DeletePrefix(ctx, "matches:")
}

func normalizeListFilter(filter match.ListFilter) match.ListFilter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return filter
}

func listCacheKey(filter match.ListFilter) string {
	var b strings.Builder
	b.WriteString("matches:list")
	if filter.LeagueID != nil {
		fmt.Fprintf(&b, ":league=%d", *filter.LeagueID)
	}
	if filter.TeamID != nil {
		fmt.Fprintf(&b, ":team=%d", *filter.TeamID)
	}
	if len(filter.Statuses) > 0 {
		fmt.Fprintf(&b, ":status=%s", strings.Join(filter.Statuses, ","))
	}
	if filter.Date != nil {
		fmt.Fprintf(&b, ":date=%s", filter.Date.Format("2006-01-02"))
	}
	if filter.DateFrom != nil {
		fmt.Fprintf(&b, ":from=%s", filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		fmt.Fprintf(&b, ":to=%s", filter.DateTo.Format("2006-01-02"))
	}
	if filter.Search != "" {
		fmt.Fprintf(&b, ":q=%s", strings.ToLower(filter.Search))
	}
	fmt.Fprintf(&b, ":page=%d:limit=%d", filter.Page, filter.Limit)
	return b.String()
}
