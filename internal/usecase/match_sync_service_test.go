package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champi-dev/live-football/internal/domain/match"
	"github.com/champi-dev/live-football/internal/domain/matchevent"
	"github.com/champi-dev/live-football/internal/domain/team"
	"github.com/champi-dev/live-football/internal/infrastructure/repository/memory"
	"github.com/champi-dev/live-football/internal/platform/logging"
	"github.com/champi-dev/live-football/internal/usecase"
)

type fakeProvider struct {
	today     []usecase.UpstreamFixture
	ranged    []usecase.UpstreamFixture
	details   map[int64]usecase.UpstreamFixture
	teams     []usecase.UpstreamTeam
	todayErr  error
	rangedErr error
	detailErr error

	detailCalls int
}

func (f *fakeProvider) TodayFixtures(context.Context) ([]usecase.UpstreamFixture, error) {
	return f.today, f.todayErr
}

func (f *fakeProvider) FixturesByDateRange(context.Context, time.Time, time.Time) ([]usecase.UpstreamFixture, error) {
	return f.ranged, f.rangedErr
}

func (f *fakeProvider) FixtureByID(_ context.Context, id int64) (usecase.UpstreamFixture, error) {
	f.detailCalls++
	if f.detailErr != nil {
		return usecase.UpstreamFixture{}, f.detailErr
	}
	fx, ok := f.details[id]
	if !ok {
		return usecase.UpstreamFixture{}, fmt.Errorf("fixture %d not found", id)
	}
	return fx, nil
}

func (f *fakeProvider) TeamByID(_ context.Context, id int64) (usecase.UpstreamTeam, error) {
	for _, t := range f.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return usecase.UpstreamTeam{}, fmt.Errorf("team %d not found", id)
}

func (f *fakeProvider) SearchTeams(context.Context, string) ([]usecase.UpstreamTeam, error) {
	return f.teams, nil
}

func listingFixture(id int64, status string) usecase.UpstreamFixture {
	home, away := 2, 1
	return usecase.UpstreamFixture{
		ID:         id,
		LeagueID:   2021,
		LeagueName: "Premier League",
		Matchday:   12,
		UTCDate:    time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC),
		Status:     status,
		Home:       usecase.UpstreamSide{Team: usecase.UpstreamTeam{ID: 57, Name: "Arsenal FC", Tla: "ARS"}},
		Away:       usecase.UpstreamSide{Team: usecase.UpstreamTeam{ID: 65, Name: "Manchester City FC", Tla: "MCI"}},
		HomeScore:  &home,
		AwayScore:  &away,
	}
}

func newSyncFixtureEnv(provider *fakeProvider) (*usecase.MatchSyncService, *memory.MatchRepository, *memory.TeamRepository, *memory.MatchEventRepository) {
	matchRepo := memory.NewMatchRepository()
	teamRepo := memory.NewTeamRepository()
	eventRepo := memory.NewMatchEventRepository()
	lineupRepo := memory.NewLineupRepository()
	statRepo := memory.NewMatchStatRepository()

	svc := usecase.NewMatchSyncService(provider, matchRepo, teamRepo, eventRepo, lineupRepo, statRepo, logging.NewNop())
	return svc, matchRepo, teamRepo, eventRepo
}

func TestSyncFixture_FirstObservation(t *testing.T) {
	provider := &fakeProvider{}
	svc, matchRepo, teamRepo, _ := newSyncFixtureEnv(provider)

	outcome, err := svc.SyncFixture(context.Background(), listingFixture(1001, "SCHEDULED"))
	require.NoError(t, err)

	assert.True(t, outcome.Created)
	assert.Nil(t, outcome.Previous)
	assert.False(t, outcome.Changes.Any(), "first observation must be quiet")
	assert.Equal(t, match.StatusNotStarted, outcome.Match.Status)

	stored, found, err := matchRepo.GetByID(context.Background(), 1001)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, stored.HomeScore)
	assert.Equal(t, 1, stored.AwayScore)

	home, found, err := teamRepo.GetByID(context.Background(), 57)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Arsenal FC", home.Name)
	assert.True(t, home.IsMajor, "sync-observed teams are major")
}

func TestSyncFixture_DetectsScoreChange(t *testing.T) {
	provider := &fakeProvider{}
	svc, _, _, _ := newSyncFixtureEnv(provider)
	ctx := context.Background()

	_, err := svc.SyncFixture(ctx, listingFixture(1001, "SCHEDULED"))
	require.NoError(t, err)

	updated := listingFixture(1001, "SCHEDULED")
	three := 3
	updated.HomeScore = &three

	outcome, err := svc.SyncFixture(ctx, updated)
	require.NoError(t, err)

	assert.False(t, outcome.Created)
	require.NotNil(t, outcome.Previous)
	assert.Equal(t, 2, outcome.Previous.HomeScore)
	assert.True(t, outcome.Changes.ScoreChanged)
	assert.False(t, outcome.Changes.StatusChanged)
}

func TestSyncFixture_KeepsDetailFieldsFromPreviousSync(t *testing.T) {
	provider := &fakeProvider{}
	svc, matchRepo, _, _ := newSyncFixtureEnv(provider)
	ctx := context.Background()

	first := listingFixture(1001, "SCHEDULED")
	first.Venue = "Emirates Stadium"
	first.Referee = "M. Oliver"
	_, err := svc.SyncFixture(ctx, first)
	require.NoError(t, err)

	// The next listing payload omits detail-only fields.
	_, err = svc.SyncFixture(ctx, listingFixture(1001, "SCHEDULED"))
	require.NoError(t, err)

	stored, _, err := matchRepo.GetByID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "Emirates Stadium", stored.Venue)
	assert.Equal(t, "M. Oliver", stored.Referee)
}

func TestSyncFixture_IdentityFieldsAreFixedAtCreation(t *testing.T) {
	provider := &fakeProvider{}
	svc, matchRepo, _, _ := newSyncFixtureEnv(provider)
	ctx := context.Background()

	first := listingFixture(1001, "SCHEDULED")
	first.Venue = "Emirates Stadium"
	_, err := svc.SyncFixture(ctx, first)
	require.NoError(t, err)

	shifted := listingFixture(1001, "SCHEDULED")
	shifted.UTCDate = time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
	shifted.LeagueID = 9999
	shifted.LeagueName = "Renamed League"
	shifted.Home.Team.ID = 57
	shifted.Venue = "Somewhere Else"

	outcome, err := svc.SyncFixture(ctx, shifted)
	require.NoError(t, err)
	assert.False(t, outcome.Created)

	stored, _, err := matchRepo.GetByID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, first.UTCDate, stored.KickoffAt, "kickoff never moves after creation")
	assert.Equal(t, int64(2021), stored.LeagueID)
	assert.Equal(t, "Premier League", stored.LeagueName)
	assert.Equal(t, int64(57), stored.HomeTeamID)
	assert.Equal(t, int64(65), stored.AwayTeamID)
	assert.Equal(t, "Emirates Stadium", stored.Venue)
}

func TestSyncFixture_DoesNotPromoteDiscoveredTeams(t *testing.T) {
	provider := &fakeProvider{}
	svc, _, teamRepo, _ := newSyncFixtureEnv(provider)
	ctx := context.Background()

	// A search-discovered club exists before sync ever sees it.
	require.NoError(t, teamRepo.Upsert(ctx, team.Team{ID: 57, Name: "Arsenal FC", IsMajor: false}))

	_, err := svc.SyncFixture(ctx, listingFixture(1001, "SCHEDULED"))
	require.NoError(t, err)

	stored, found, err := teamRepo.GetByID(ctx, 57)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, stored.IsMajor, "the major flag is set at creation only")

	away, _, err := teamRepo.GetByID(ctx, 65)
	require.NoError(t, err)
	assert.True(t, away.IsMajor, "a team first seen by sync is created major")
}

func TestSyncFixture_FetchesDetailForLiveMatches(t *testing.T) {
	detail := listingFixture(1001, "IN_PLAY")
	detail.Goals = []usecase.UpstreamGoal{
		{Minute: 23, TeamID: 57, Scorer: "Saka", Type: "REGULAR"},
		{Minute: 9, TeamID: 65, Scorer: "Haaland", Type: "REGULAR"},
	}
	provider := &fakeProvider{details: map[int64]usecase.UpstreamFixture{1001: detail}}
	svc, _, _, eventRepo := newSyncFixtureEnv(provider)

	_, err := svc.SyncFixture(context.Background(), listingFixture(1001, "IN_PLAY"))
	require.NoError(t, err)
	assert.Equal(t, 1, provider.detailCalls)

	events, err := eventRepo.ListByMatch(context.Background(), 1001)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, matchevent.TypeGoal, events[0].Type)
	assert.Equal(t, 9, events[0].Minute, "events are ordered by minute")
	assert.Equal(t, "Haaland", events[0].PlayerName)
}

func TestSyncFixture_DetailFailureDoesNotFailSync(t *testing.T) {
	provider := &fakeProvider{detailErr: fmt.Errorf("upstream down")}
	svc, matchRepo, _, _ := newSyncFixtureEnv(provider)

	_, err := svc.SyncFixture(context.Background(), listingFixture(1001, "IN_PLAY"))
	require.NoError(t, err)

	_, found, err := matchRepo.GetByID(context.Background(), 1001)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSyncFixture_RateLimitedDetailFetchPropagates(t *testing.T) {
	provider := &fakeProvider{detailErr: fmt.Errorf("%w: quota exhausted", usecase.ErrRateLimited)}
	svc, matchRepo, _, _ := newSyncFixtureEnv(provider)

	_, err := svc.SyncFixture(context.Background(), listingFixture(1001, "IN_PLAY"))
	assert.ErrorIs(t, err, usecase.ErrRateLimited, "throttling must reach the caller so it can back off")

	// The base match row was already written before the detail fetch.
	_, found, err := matchRepo.GetByID(context.Background(), 1001)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSyncFixture_SkipsDetailForScheduledMatches(t *testing.T) {
	provider := &fakeProvider{}
	svc, _, _, _ := newSyncFixtureEnv(provider)

	_, err := svc.SyncFixture(context.Background(), listingFixture(1001, "SCHEDULED"))
	require.NoError(t, err)
	assert.Zero(t, provider.detailCalls)
}

func TestSyncFixture_RejectsZeroFixtureID(t *testing.T) {
	provider := &fakeProvider{}
	svc, _, _, _ := newSyncFixtureEnv(provider)

	fx := listingFixture(1001, "SCHEDULED")
	fx.ID = 0

	_, err := svc.SyncFixture(context.Background(), fx)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}
