package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champi-dev/live-football/internal/domain/match"
	"github.com/champi-dev/live-football/internal/infrastructure/repository/memory"
	"github.com/champi-dev/live-football/internal/platform/logging"
)

type stubProvider struct {
	today     []UpstreamFixture
	ranged    []UpstreamFixture
	todayErr  error
	rangedErr error

	mu         sync.Mutex
	todayCalls int
}

func (p *stubProvider) TodayFixtures(context.Context) ([]UpstreamFixture, error) {
	p.mu.Lock()
	p.todayCalls++
	p.mu.Unlock()
	return p.today, p.todayErr
}

func (p *stubProvider) FixturesByDateRange(context.Context, time.Time, time.Time) ([]UpstreamFixture, error) {
	return p.ranged, p.rangedErr
}

func (p *stubProvider) FixtureByID(context.Context, int64) (UpstreamFixture, error) {
	return UpstreamFixture{}, fmt.Errorf("no detail")
}

func (p *stubProvider) TeamByID(context.Context, int64) (UpstreamTeam, error) {
	return UpstreamTeam{}, fmt.Errorf("not found")
}

func (p *stubProvider) SearchTeams(context.Context, string) ([]UpstreamTeam, error) {
	return nil, nil
}

type publishedEvent struct {
	Topic   string
	Event   string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (r *recordingPublisher) Publish(topic, event string, payload any) {
	r.mu.Lock()
	r.events = append(r.events, publishedEvent{Topic: topic, Event: event, Payload: payload})
	r.mu.Unlock()
}

func (r *recordingPublisher) all() []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]publishedEvent, len(r.events))
	copy(out, r.events)
	return out
}

// rateLimitOnceRepo fails the first upsert with ErrRateLimited, then
// delegates to the wrapped repository.
type rateLimitOnceRepo struct {
	match.Repository
	mu     sync.Mutex
	failed bool
}

func (r *rateLimitOnceRepo) Upsert(ctx context.Context, item match.Match) error {
	r.mu.Lock()
	first := !r.failed
	r.failed = true
	r.mu.Unlock()
	if first {
		return fmt.Errorf("%w: upstream throttled", ErrRateLimited)
	}
	return r.Repository.Upsert(ctx, item)
}

func schedulerFixture(id int64, status string, homeScore int) UpstreamFixture {
	away := 0
	return UpstreamFixture{
		ID:       id,
		LeagueID: 2021,
		UTCDate:  time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC),
		Status:   status,
		Home:     UpstreamSide{Team: UpstreamTeam{ID: 57, Name: "Arsenal FC"}},
		Away:     UpstreamSide{Team: UpstreamTeam{ID: 65, Name: "Manchester City FC"}},
		HomeScore: &homeScore,
		AwayScore: &away,
	}
}

func newSchedulerEnv(provider *stubProvider, publisher EventPublisher, cfg SyncSchedulerConfig) (*SyncSchedulerService, *MatchSyncService) {
	syncer := NewMatchSyncService(
		provider,
		memory.NewMatchRepository(),
		memory.NewTeamRepository(),
		memory.NewMatchEventRepository(),
		memory.NewLineupRepository(),
		memory.NewMatchStatRepository(),
		logging.NewNop(),
	)
	return NewSyncSchedulerService(provider, syncer, publisher, cfg, logging.NewNop()), syncer
}

func TestSyncNow_CountsAndPublishesOnlyOnChange(t *testing.T) {
	provider := &stubProvider{today: []UpstreamFixture{schedulerFixture(1, "SCHEDULED", 0)}}
	publisher := &recordingPublisher{}
	svc, _ := newSchedulerEnv(provider, publisher, SyncSchedulerConfig{})
	ctx := context.Background()

	first, err := svc.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Synced)
	assert.Zero(t, first.Updated)
	assert.Empty(t, publisher.all(), "first observation never fans out")

	provider.today = []UpstreamFixture{schedulerFixture(1, "IN_PLAY", 1)}

	second, err := svc.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Synced)
	assert.Equal(t, 1, second.Updated)

	events := publisher.all()
	require.NotEmpty(t, events)
	topics := map[string]bool{}
	names := map[string]bool{}
	for _, e := range events {
		topics[e.Topic] = true
		names[e.Event] = true
	}
	assert.True(t, topics["match:1"])
	assert.True(t, topics["team:57"], "start events reach both team topics")
	assert.True(t, topics["team:65"])
	assert.True(t, names["match_update"])
	assert.True(t, names["match_event"], "score change fans a match_event out")
	assert.True(t, names["match_started"])
}

func TestSyncNow_FinishedMatchCarriesFinalScore(t *testing.T) {
	provider := &stubProvider{today: []UpstreamFixture{schedulerFixture(1, "IN_PLAY", 2)}}
	publisher := &recordingPublisher{}
	svc, _ := newSchedulerEnv(provider, publisher, SyncSchedulerConfig{})
	ctx := context.Background()

	_, err := svc.SyncNow(ctx)
	require.NoError(t, err)

	provider.today = []UpstreamFixture{schedulerFixture(1, "FINISHED", 2)}
	_, err = svc.SyncNow(ctx)
	require.NoError(t, err)

	var ended *publishedEvent
	for _, e := range publisher.all() {
		if e.Event == "match_ended" && e.Topic == "match:1" {
			ev := e
			ended = &ev
			break
		}
	}
	require.NotNil(t, ended, "expected a match_ended emission")

	payload, ok := ended.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2-0", payload["finalScore"])
}

func TestSyncNow_FixtureFailureStaysInTickSummary(t *testing.T) {
	bad := schedulerFixture(2, "SCHEDULED", 0)
	bad.Home.Team.ID = 0
	provider := &stubProvider{today: []UpstreamFixture{schedulerFixture(1, "SCHEDULED", 0), bad}}
	svc, _ := newSchedulerEnv(provider, &recordingPublisher{}, SyncSchedulerConfig{})

	summary, err := svc.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Synced)
	assert.Equal(t, 1, summary.Errors)

	stats := svc.Stats()
	assert.Equal(t, 1, stats.SyncCount)
	assert.Zero(t, stats.ErrorCount, "a completed pass never inflates the scheduler error count")
	assert.NotNil(t, stats.LastSyncTime)
}

func TestSyncNow_ProviderFailureCountsError(t *testing.T) {
	provider := &stubProvider{todayErr: fmt.Errorf("upstream down")}
	svc, _ := newSchedulerEnv(provider, &recordingPublisher{}, SyncSchedulerConfig{})

	_, err := svc.SyncNow(context.Background())
	require.Error(t, err)

	stats := svc.Stats()
	assert.Equal(t, 1, stats.ErrorCount)
	assert.Zero(t, stats.SyncCount)
	assert.Nil(t, stats.LastSyncTime)
}

func TestSyncNow_RecordsPassInStats(t *testing.T) {
	provider := &stubProvider{today: []UpstreamFixture{schedulerFixture(1, "SCHEDULED", 0)}}
	svc, _ := newSchedulerEnv(provider, &recordingPublisher{}, SyncSchedulerConfig{})

	_, err := svc.SyncNow(context.Background())
	require.NoError(t, err)

	stats := svc.Stats()
	assert.Equal(t, 1, stats.SyncCount)
	assert.Zero(t, stats.ErrorCount)
	assert.NotNil(t, stats.LastSyncTime)
}

func TestTick_SkipsWhenDisabled(t *testing.T) {
	provider := &stubProvider{today: []UpstreamFixture{schedulerFixture(1, "SCHEDULED", 0)}}
	svc, _ := newSchedulerEnv(provider, &recordingPublisher{}, SyncSchedulerConfig{})
	svc.SetEnabled(false)

	svc.tick(context.Background())

	assert.Zero(t, provider.todayCalls)
	assert.False(t, svc.Stats().IsEnabled)
}

func TestTick_SkipsOutsideActiveWindow(t *testing.T) {
	provider := &stubProvider{today: []UpstreamFixture{schedulerFixture(1, "SCHEDULED", 0)}}
	svc, _ := newSchedulerEnv(provider, &recordingPublisher{}, SyncSchedulerConfig{})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 7, 4, 30, 0, 0, time.UTC)
	}

	svc.tick(context.Background())

	assert.Zero(t, provider.todayCalls)
}

func TestWithinActiveWindow(t *testing.T) {
	start, end := 6, 1
	svc, _ := newSchedulerEnv(&stubProvider{}, nil, SyncSchedulerConfig{
		ActiveStartHour: &start,
		ActiveEndHour:   &end,
	})

	at := func(hour int) time.Time {
		return time.Date(2026, 3, 7, hour, 0, 0, 0, time.UTC)
	}

	assert.True(t, svc.withinActiveWindow(at(6)))
	assert.True(t, svc.withinActiveWindow(at(23)))
	assert.True(t, svc.withinActiveWindow(at(0)))
	assert.True(t, svc.withinActiveWindow(at(1)), "window runs through 01:59")
	assert.False(t, svc.withinActiveWindow(at(2)), "02:00 is past the end of the window")
	assert.False(t, svc.withinActiveWindow(at(3)))
	assert.False(t, svc.withinActiveWindow(at(5)))
}

func TestWithinActiveWindow_ZeroConfigUsesDefaults(t *testing.T) {
	svc, _ := newSchedulerEnv(&stubProvider{}, nil, SyncSchedulerConfig{})

	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 7, hour, minute, 0, 0, time.UTC)
	}

	assert.True(t, svc.withinActiveWindow(at(6, 0)))
	assert.True(t, svc.withinActiveWindow(at(1, 30)), "the 01:00 hour belongs to the default window")
	assert.False(t, svc.withinActiveWindow(at(2, 30)))
	assert.False(t, svc.withinActiveWindow(at(4, 30)))
}

func TestWithinActiveWindow_MidnightEndHourIsHonored(t *testing.T) {
	start, end := 6, 0
	svc, _ := newSchedulerEnv(&stubProvider{}, nil, SyncSchedulerConfig{
		ActiveStartHour: &start,
		ActiveEndHour:   &end,
	})

	at := func(hour int) time.Time {
		return time.Date(2026, 3, 7, hour, 30, 0, 0, time.UTC)
	}

	assert.True(t, svc.withinActiveWindow(at(0)))
	assert.False(t, svc.withinActiveWindow(at(1)))
}

func TestSyncDateRange_RejectsInvertedRange(t *testing.T) {
	svc, _ := newSchedulerEnv(&stubProvider{}, nil, SyncSchedulerConfig{})

	from := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	_, err := svc.SyncDateRange(context.Background(), from, from.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSyncDateRange_BackfillsAllFixtures(t *testing.T) {
	provider := &stubProvider{ranged: []UpstreamFixture{
		schedulerFixture(1, "FINISHED", 2),
		schedulerFixture(2, "FINISHED", 0),
		schedulerFixture(3, "FINISHED", 1),
	}}
	svc, _ := newSchedulerEnv(provider, nil, SyncSchedulerConfig{BackfillWorkers: 2})

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	summary, err := svc.SyncDateRange(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Synced)
	assert.Zero(t, summary.Errors)
	assert.Equal(t, "2026-03-01", summary.DateFrom)
	assert.Equal(t, "2026-03-07", summary.DateTo)
}

func TestSyncDateRange_RateLimitCoolsDownOnceThenRetries(t *testing.T) {
	provider := &stubProvider{ranged: []UpstreamFixture{schedulerFixture(1, "FINISHED", 2)}}
	publisher := &recordingPublisher{}

	matchRepo := &rateLimitOnceRepo{Repository: memory.NewMatchRepository()}
	syncer := NewMatchSyncService(
		provider,
		matchRepo,
		memory.NewTeamRepository(),
		memory.NewMatchEventRepository(),
		memory.NewLineupRepository(),
		memory.NewMatchStatRepository(),
		logging.NewNop(),
	)
	svc := NewSyncSchedulerService(provider, syncer, publisher, SyncSchedulerConfig{
		RateLimitCooldown: 30 * time.Second,
	}, logging.NewNop())

	var slept []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
	}

	from := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	summary, err := svc.SyncDateRange(context.Background(), from, from)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Synced)
	assert.Zero(t, summary.Errors)
	require.Len(t, slept, 1, "a single cooldown before the retry")
	assert.Equal(t, 30*time.Second, slept[0])
}

func TestStartStop_Idempotent(t *testing.T) {
	provider := &stubProvider{}
	svc, _ := newSchedulerEnv(provider, nil, SyncSchedulerConfig{Interval: time.Hour})

	svc.Start()
	svc.Start()
	assert.True(t, svc.Stats().IsRunning)

	svc.Stop()
	svc.Stop()
	assert.False(t, svc.Stats().IsRunning)
}
