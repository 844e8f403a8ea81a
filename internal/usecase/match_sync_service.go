package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/champi-dev/live-football/internal/domain/lineup"
	"github.com/champi-dev/live-football/internal/domain/match"
	"github.com/champi-dev/live-football/internal/domain/matchevent"
	"github.com/champi-dev/live-football/internal/domain/matchstat"
	"github.com/champi-dev/live-football/internal/domain/team"
	"github.com/champi-dev/live-football/internal/platform/logging"
)

// SyncOutcome is what one fixture reconciliation produced.
type SyncOutcome struct {
	Match    match.Match
	Previous *match.Match
	Changes  ChangeSet
	Created  bool
}

// MatchSyncService reconciles upstream fixture payloads into local storage.
type MatchSyncService struct {
	provider   MatchDataProvider
	matchRepo  match.Repository
	teamRepo   team.Repository
	eventRepo  matchevent.Repository
	lineupRepo lineup.Repository
	statRepo   matchstat.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchSyncService(
	provider MatchDataProvider,
	matchRepo match.Repository,
	teamRepo team.Repository,
	eventRepo matchevent.Repository,
	lineupRepo lineup.Repository,
	statRepo matchstat.Repository,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchSyncService{
		provider:   provider,
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		eventRepo:  eventRepo,
		lineupRepo: lineupRepo,
		statRepo:   statRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// SyncFixture upserts one fixture plus its child collections and reports
// what changed against the previously stored row. Change detection never
// fires on the first observation of a fixture.
func (s *MatchSyncService) SyncFixture(ctx context.Context, fx UpstreamFixture) (SyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncFixture")
	defer span.End()

	if fx.ID == 0 {
		return SyncOutcome{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	if err := s.upsertTeam(ctx, fx.Home.Team); err != nil {
		return SyncOutcome{}, fmt.Errorf("upsert home team for fixture %d: %w", fx.ID, err)
	}
	if err := s.upsertTeam(ctx, fx.Away.Team); err != nil {
		return SyncOutcome{}, fmt.Errorf("upsert away team for fixture %d: %w", fx.ID, err)
	}

	existing, found, err := s.matchRepo.GetByID(ctx, fx.ID)
	if err != nil {
		return SyncOutcome{}, fmt.Errorf("load match %d: %w", fx.ID, err)
	}

	var prev *match.Match
	if found {
		stored := existing
		prev = &stored
	}

	item := s.buildMatch(fx, prev)
	if err := s.matchRepo.Upsert(ctx, item); err != nil {
		return SyncOutcome{}, fmt.Errorf("upsert match %d: %w", fx.ID, err)
	}

	if err := s.syncChildren(ctx, fx, item); err != nil {
		return SyncOutcome{}, err
	}

	if err := s.fetchAndApplyDetail(ctx, &fx, item); err != nil {
		return SyncOutcome{}, err
	}

	return SyncOutcome{
		Match:    item,
		Previous: prev,
		Changes:  DetectChanges(prev, item),
		Created:  !found,
	}, nil
}

func (s *MatchSyncService) upsertTeam(ctx context.Context, up UpstreamTeam) error {
	if up.ID == 0 {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item := team.Team{
		ID:        up.ID,
		Name:      up.Name,
		ShortName: up.ShortName,
		Tla:       up.Tla,
		CrestURL:  up.Crest,
		Country:   up.Country,
		Founded:   up.Founded,
		Venue:     up.Venue,
		// Upsert keeps the stored flag for known teams; only first
		// discovery through the sync path marks a team major.
		IsMajor: true,
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.teamRepo.Upsert(ctx, item)
}

func (s *MatchSyncService) buildMatch(fx UpstreamFixture, prev *match.Match) match.Match {
	now := s.now()
	status := match.MapProviderStatus(fx.Status)

	item := match.Match{
		ID:           fx.ID,
		LeagueID:     fx.LeagueID,
		LeagueName:   fx.LeagueName,
		HomeTeamID:   fx.Home.Team.ID,
		AwayTeamID:   fx.Away.Team.ID,
		KickoffAt:    fx.UTCDate.UTC(),
		Status:       status,
		Matchday:     fx.Matchday,
		Venue:        fx.Venue,
		Referee:      fx.Referee,
		Attendance:   fx.Attendance,
		LastSyncedAt: now,
	}

	if fx.HomeScore != nil {
		item.HomeScore = *fx.HomeScore
	}
	if fx.AwayScore != nil {
		item.AwayScore = *fx.AwayScore
	}
	item.HalfTimeHomeScore = fx.HalfTimeHome
	item.HalfTimeAwayScore = fx.HalfTimeAway

	item.HomeFormation = fx.Home.Formation
	item.AwayFormation = fx.Away.Formation
	item.HomeCoach = fx.Home.Coach
	item.AwayCoach = fx.Away.Coach

	if prev != nil {
		// Scheduling, league identity and venue are fixed at creation;
		// whatever upstream sends later is ignored.
		item.LeagueID = prev.LeagueID
		item.LeagueName = prev.LeagueName
		item.HomeTeamID = prev.HomeTeamID
		item.AwayTeamID = prev.AwayTeamID
		item.KickoffAt = prev.KickoffAt
		item.Matchday = prev.Matchday
		item.Venue = prev.Venue

		// Listing payloads omit detail-only fields; keep what we already know.
		if item.Referee == "" {
			item.Referee = prev.Referee
		}
		if item.Attendance == nil {
			item.Attendance = prev.Attendance
		}
		if item.HomeFormation == "" {
			item.HomeFormation = prev.HomeFormation
		}
		if item.AwayFormation == "" {
			item.AwayFormation = prev.AwayFormation
		}
		if item.HomeCoach == "" {
			item.HomeCoach = prev.HomeCoach
		}
		if item.AwayCoach == "" {
			item.AwayCoach = prev.AwayCoach
		}
	}

	item.ElapsedMinute = match.ElapsedMinute(status, item.KickoffAt, now)
	return item
}

func (s *MatchSyncService) syncChildren(ctx context.Context, fx UpstreamFixture, item match.Match) error {
	if len(fx.Home.Lineup)+len(fx.Home.Bench)+len(fx.Away.Lineup)+len(fx.Away.Bench) > 0 {
		entries := buildLineupEntries(fx)
		if err := s.lineupRepo.ReplaceForMatch(ctx, item.ID, entries); err != nil {
			return fmt.Errorf("replace lineups for match %d: %w", item.ID, err)
		}
	}

	if len(fx.Home.Statistics)+len(fx.Away.Statistics) > 0 {
		stats := buildStats(fx)
		if err := s.statRepo.Upsert(ctx, stats); err != nil {
			return fmt.Errorf("upsert statistics for match %d: %w", item.ID, err)
		}
	}

	if len(fx.Goals)+len(fx.Bookings)+len(fx.Substitutions) > 0 {
		events := buildEvents(fx)
		if err := s.eventRepo.ReplaceForMatch(ctx, item.ID, events); err != nil {
			return fmt.Errorf("replace events for match %d: %w", item.ID, err)
		}
	}

	return nil
}

// fetchAndApplyDetail pulls the fixture detail endpoint for matches worth
// detailing. Detail failures are swallowed so one slow fixture cannot fail
// a whole sync pass; rate limiting is the exception and propagates so
// callers can back off instead of hammering the provider.
func (s *MatchSyncService) fetchAndApplyDetail(ctx context.Context, fx *UpstreamFixture, item match.Match) error {
	if !match.NeedsDetail(item.Status) {
		return nil
	}
	// The listing payload already carried detail collections.
	if len(fx.Goals)+len(fx.Bookings)+len(fx.Substitutions) > 0 {
		return nil
	}

	detail, err := s.provider.FixtureByID(ctx, item.ID)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return fmt.Errorf("fetch detail for match %d: %w", item.ID, err)
		}
		s.logger.WarnContext(ctx, "fixture detail fetch failed",
			"match_id", item.ID,
			"error", err,
		)
		return nil
	}

	if err := s.syncChildren(ctx, detail, item); err != nil {
		s.logger.WarnContext(ctx, "fixture detail apply failed",
			"match_id", item.ID,
			"error", err,
		)
	}
	return nil
}

func buildLineupEntries(fx UpstreamFixture) []lineup.Entry {
	out := make([]lineup.Entry, 0,
		len(fx.Home.Lineup)+len(fx.Home.Bench)+len(fx.Away.Lineup)+len(fx.Away.Bench))
	appendSide := func(teamID int64, players []UpstreamLineupPlayer, starting bool) {
		for _, p := range players {
			out = append(out, lineup.Entry{
				MatchID:     fx.ID,
				TeamID:      teamID,
				PlayerName:  p.Name,
				Position:    p.Position,
				ShirtNumber: p.ShirtNumber,
				IsStarting:  starting,
			})
		}
	}
	appendSide(fx.Home.Team.ID, fx.Home.Lineup, true)
	appendSide(fx.Home.Team.ID, fx.Home.Bench, false)
	appendSide(fx.Away.Team.ID, fx.Away.Lineup, true)
	appendSide(fx.Away.Team.ID, fx.Away.Bench, false)
	return out
}

func buildEvents(fx UpstreamFixture) []matchevent.Event {
	out := make([]matchevent.Event, 0, len(fx.Goals)+len(fx.Bookings)+len(fx.Substitutions))

	for _, g := range fx.Goals {
		out = append(out, matchevent.Event{
			MatchID:     fx.ID,
			TeamID:      g.TeamID,
			Type:        matchevent.TypeGoal,
			Minute:      g.Minute,
			ExtraMinute: g.ExtraMinute,
			PlayerName:  g.Scorer,
			AssistName:  g.Assist,
			Detail:      g.Type,
		})
	}
	for _, b := range fx.Bookings {
		out = append(out, matchevent.Event{
			MatchID:     fx.ID,
			TeamID:      b.TeamID,
			Type:        matchevent.TypeCard,
			Minute:      b.Minute,
			ExtraMinute: b.ExtraMinute,
			PlayerName:  b.Player,
			Detail:      b.Card,
		})
	}
	for _, sub := range fx.Substitutions {
		out = append(out, matchevent.Event{
			MatchID:     fx.ID,
			TeamID:      sub.TeamID,
			Type:        matchevent.TypeSubstitution,
			Minute:      sub.Minute,
			ExtraMinute: sub.ExtraMinute,
			PlayerName:  sub.PlayerOut,
			AssistName:  sub.PlayerIn,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Minute != out[j].Minute {
			return out[i].Minute < out[j].Minute
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func buildStats(fx UpstreamFixture) matchstat.Stats {
	stats := matchstat.Stats{MatchID: fx.ID}
	pick := func(side map[string]int, key string) *int {
		if side == nil {
			return nil
		}
		v, ok := side[key]
		if !ok {
			return nil
		}
		return &v
	}

	home, away := fx.Home.Statistics, fx.Away.Statistics
	stats.HomePossession = pick(home, StatPossession)
	stats.AwayPossession = pick(away, StatPossession)
	stats.HomeShots = pick(home, StatShots)
	stats.AwayShots = pick(away, StatShots)
	stats.HomeShotsOn = pick(home, StatShotsOnGoal)
	stats.AwayShotsOn = pick(away, StatShotsOnGoal)
	stats.HomeShotsOff = pick(home, StatShotsOffGoal)
	stats.AwayShotsOff = pick(away, StatShotsOffGoal)
	stats.HomeCorners = pick(home, StatCorners)
	stats.AwayCorners = pick(away, StatCorners)
	stats.HomeFouls = pick(home, StatFouls)
	stats.AwayFouls = pick(away, StatFouls)
	stats.HomeOffsides = pick(home, StatOffsides)
	stats.AwayOffsides = pick(away, StatOffsides)
	stats.HomeYellows = pick(home, StatYellowCards)
	stats.AwayYellows = pick(away, StatYellowCards)
	stats.HomeReds = pick(home, StatRedCards)
	stats.AwayReds = pick(away, StatRedCards)
	stats.HomeSaves = pick(home, StatSaves)
	stats.AwaySaves = pick(away, StatSaves)
	return stats
}
