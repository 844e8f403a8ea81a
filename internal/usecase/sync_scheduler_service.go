package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/champi-dev/live-football/internal/platform/logging"
)

const (
	defaultSyncInterval      = 2 * time.Minute
	defaultActiveStartHour   = 6
	defaultActiveEndHour     = 1
	defaultBackfillWorkers   = 2
	defaultRateLimitCooldown = time.Minute
)

// SyncSchedulerConfig tunes the periodic sync loop. Zero values fall back
// to defaults in NewSyncSchedulerService. The hour bounds are pointers
// because 0 is a valid midnight hour and must stay distinguishable from
// "not configured".
type SyncSchedulerConfig struct {
	Interval          time.Duration
	ActiveStartHour   *int
	ActiveEndHour     *int
	BackfillWorkers   int
	RateLimitCooldown time.Duration
}

func hourOrDefault(value *int, fallback int) int {
	if value == nil || *value < 0 || *value > 23 {
		return fallback
	}
	return *value
}

// SchedulerStats is a snapshot of the scheduler's counters.
type SchedulerStats struct {
	IsEnabled    bool       `json:"is_enabled"`
	IsRunning    bool       `json:"is_running"`
	LastSyncTime *time.Time `json:"last_sync_time"`
	SyncCount    int        `json:"sync_count"`
	ErrorCount   int        `json:"error_count"`
}

// TickSummary reports one completed sync pass.
type TickSummary struct {
	Synced     int   `json:"synced"`
	Updated    int   `json:"updated"`
	Errors     int   `json:"errors"`
	DurationMs int64 `json:"duration_ms"`
}

// RangeSummary reports one completed date-range backfill.
type RangeSummary struct {
	DateFrom   string `json:"date_from"`
	DateTo     string `json:"date_to"`
	Synced     int    `json:"synced"`
	Errors     int    `json:"errors"`
	DurationMs int64  `json:"duration_ms"`
}

// SyncSchedulerService drives periodic fixture syncing with change
// detection and websocket fan-out. The fan-out handle is injected so the
// scheduler stays testable without a live hub.
type SyncSchedulerService struct {
	provider  MatchDataProvider
	syncer    *MatchSyncService
	publisher EventPublisher
	logger    *logging.Logger
	cfg       SyncSchedulerConfig

	activeStartHour int
	activeEndHour   int

	now   func() time.Time
	sleep func(context.Context, time.Duration)

	mu           sync.Mutex
	enabled      bool
	running      bool
	stopCh       chan struct{}
	wg           sync.WaitGroup
	lastSyncTime *time.Time
	syncCount    int
	errorCount   int
}

func NewSyncSchedulerService(
	provider MatchDataProvider,
	syncer *MatchSyncService,
	publisher EventPublisher,
	cfg SyncSchedulerConfig,
	logger *logging.Logger,
) *SyncSchedulerService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultSyncInterval
	}
	if cfg.BackfillWorkers <= 0 {
		cfg.BackfillWorkers = defaultBackfillWorkers
	}
	if cfg.RateLimitCooldown <= 0 {
		cfg.RateLimitCooldown = defaultRateLimitCooldown
	}

	return &SyncSchedulerService{
		provider:        provider,
		syncer:          syncer,
		publisher:       publisher,
		logger:          logger,
		cfg:             cfg,
		activeStartHour: hourOrDefault(cfg.ActiveStartHour, defaultActiveStartHour),
		activeEndHour:   hourOrDefault(cfg.ActiveEndHour, defaultActiveEndHour),
		enabled:         true,
		now:             time.Now,
		sleep:           sleepContext,
	}
}

// Start launches the periodic loop. The first pass runs immediately;
// subsequent passes run every Interval while the active window allows.
func (s *SyncSchedulerService) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.logger.Info("sync scheduler started",
		"interval", s.cfg.Interval.String(),
		"active_start_hour", s.activeStartHour,
		"active_end_hour", s.activeEndHour,
	)

	s.wg.Add(1)
	go s.loop(stopCh)
}

// Stop halts the loop and waits for an in-flight pass to finish.
func (s *SyncSchedulerService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("sync scheduler stopped")
}

// SetEnabled toggles whether ticks perform work. The loop keeps running
// so re-enabling needs no restart.
func (s *SyncSchedulerService) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
	s.logger.Info("sync scheduler toggled", "enabled", enabled)
}

func (s *SyncSchedulerService) Stats() SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := SchedulerStats{
		IsEnabled:  s.enabled,
		IsRunning:  s.running,
		SyncCount:  s.syncCount,
		ErrorCount: s.errorCount,
	}
	if s.lastSyncTime != nil {
		t := *s.lastSyncTime
		out.LastSyncTime = &t
	}
	return out
}

func (s *SyncSchedulerService) loop(stopCh chan struct{}) {
	defer s.wg.Done()

	ctx := context.Background()
	s.tick(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *SyncSchedulerService) tick(ctx context.Context) {
	s.mu.Lock()
	enabled := s.enabled
	s.mu.Unlock()
	if !enabled {
		return
	}

	now := s.now()
	if !s.withinActiveWindow(now) {
		s.logger.Debug("sync pass skipped outside active window", "hour", now.Hour())
		return
	}

	summary, err := s.SyncNow(ctx)
	if err != nil {
		s.logger.Error("sync pass failed", "error", err)
		return
	}
	s.logger.Info("sync pass completed",
		"synced", summary.Synced,
		"updated", summary.Updated,
		"errors", summary.Errors,
		"duration_ms", summary.DurationMs,
	)
}

// withinActiveWindow reports whether t falls inside the daily sync window.
// The end hour is inclusive: with the defaults the window spans 06:00
// through 01:59 the next day, and 02:00 is already outside it.
func (s *SyncSchedulerService) withinActiveWindow(t time.Time) bool {
	hour := t.Hour()
	if s.activeStartHour <= s.activeEndHour {
		return hour >= s.activeStartHour && hour <= s.activeEndHour
	}
	return hour >= s.activeStartHour || hour <= s.activeEndHour
}

// SyncNow runs one full pass over today's fixtures: reconcile each one,
// detect changes, and fan matching events out. Per-fixture failures count
// as errors without aborting the pass.
func (s *SyncSchedulerService) SyncNow(ctx context.Context) (TickSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncSchedulerService.SyncNow")
	defer span.End()

	start := s.now()
	fixtures, err := s.provider.TodayFixtures(ctx)
	if err != nil {
		s.recordPass(start, 0, 1)
		return TickSummary{}, fmt.Errorf("fetch today fixtures: %w", err)
	}

	var summary TickSummary
	for _, fx := range fixtures {
		outcome, err := s.syncer.SyncFixture(ctx, fx)
		if err != nil {
			summary.Errors++
			s.logger.WarnContext(ctx, "fixture sync failed",
				"fixture_id", fx.ID,
				"error", err,
			)
			continue
		}

		summary.Synced++
		if outcome.Changes.Any() {
			summary.Updated++
			s.publishChanges(outcome)
		}
	}

	// ErrorCount tracks failed passes, not failed fixtures; per-fixture
	// failures are visible in the tick summary.
	summary.DurationMs = s.now().Sub(start).Milliseconds()
	s.recordPass(start, 1, 0)
	return summary, nil
}

func (s *SyncSchedulerService) recordPass(start time.Time, passes, errs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncCount += passes
	s.errorCount += errs
	if passes > 0 {
		t := start
		s.lastSyncTime = &t
	}
}

func (s *SyncSchedulerService) publishChanges(outcome SyncOutcome) {
	if s.publisher == nil {
		return
	}

	m := outcome.Match
	topic := matchTopic(m.ID)
	payload := map[string]any{
		"matchId":    m.ID,
		"status":     m.Status,
		"homeScore":  m.HomeScore,
		"awayScore":  m.AwayScore,
		"elapsed":    m.ElapsedMinute,
	}

	if outcome.Changes.ScoreChanged || outcome.Changes.StatusChanged {
		s.publisher.Publish(topic, "match_update", payload)
	}
	if outcome.Changes.ScoreChanged {
		s.publisher.Publish(topic, "match_event", payload)
	}
	if outcome.Changes.JustStarted {
		s.publisher.Publish(topic, "match_started", payload)
		s.publisher.Publish(teamTopic(m.HomeTeamID), "match_started", payload)
		s.publisher.Publish(teamTopic(m.AwayTeamID), "match_started", payload)
	}
	if outcome.Changes.JustFinished {
		ended := make(map[string]any, len(payload)+1)
		for k, v := range payload {
			ended[k] = v
		}
		ended["finalScore"] = fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore)
		s.publisher.Publish(topic, "match_ended", ended)
		s.publisher.Publish(teamTopic(m.HomeTeamID), "match_ended", ended)
		s.publisher.Publish(teamTopic(m.AwayTeamID), "match_ended", ended)
	}
}

// SyncDateRange backfills fixtures between two dates inclusive. No change
// detection and no fan-out; rate limiting pauses once for the configured
// cooldown before a single retry per fixture.
func (s *SyncSchedulerService) SyncDateRange(ctx context.Context, from, to time.Time) (RangeSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncSchedulerService.SyncDateRange")
	defer span.End()

	if to.Before(from) {
		return RangeSummary{}, fmt.Errorf("%w: date_to before date_from", ErrInvalidInput)
	}

	start := s.now()
	fixtures, err := s.provider.FixturesByDateRange(ctx, from, to)
	if err != nil {
		return RangeSummary{}, fmt.Errorf("fetch fixtures by date range: %w", err)
	}

	summary := RangeSummary{
		DateFrom: from.Format("2006-01-02"),
		DateTo:   to.Format("2006-01-02"),
	}
	if len(fixtures) == 0 {
		summary.DurationMs = s.now().Sub(start).Milliseconds()
		return summary, nil
	}

	pool, err := ants.NewPool(s.cfg.BackfillWorkers)
	if err != nil {
		return RangeSummary{}, fmt.Errorf("create backfill pool: %w", err)
	}
	defer pool.Release()

	var synced atomic.Int32
	var failed atomic.Int32
	var workers sync.WaitGroup
	ids := make(chan int64, len(fixtures))

	for _, fx := range fixtures {
		fx := fx
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := s.backfillFixture(ctx, fx); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "backfill fixture failed",
					"fixture_id", fx.ID,
					"error", err,
				)
				return
			}
			synced.Add(1)
			ids <- fx.ID
		}); err != nil {
			workers.Done()
			return RangeSummary{}, fmt.Errorf("submit backfill task: %w", err)
		}
	}

	workers.Wait()
	close(ids)

	done := make([]int64, 0, len(fixtures))
	for id := range ids {
		done = append(done, id)
	}
	sort.Slice(done, func(i, j int) bool { return done[i] < done[j] })

	summary.Synced = int(synced.Load())
	summary.Errors = int(failed.Load())
	summary.DurationMs = s.now().Sub(start).Milliseconds()

	s.logger.InfoContext(ctx, "backfill completed",
		"date_from", summary.DateFrom,
		"date_to", summary.DateTo,
		"synced", summary.Synced,
		"errors", summary.Errors,
		"fixture_ids", done,
	)
	return summary, nil
}

func (s *SyncSchedulerService) backfillFixture(ctx context.Context, fx UpstreamFixture) error {
	_, err := s.syncer.SyncFixture(ctx, fx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrRateLimited) {
		return err
	}

	s.logger.WarnContext(ctx, "rate limited during backfill, cooling down",
		"fixture_id", fx.ID,
		"cooldown", s.cfg.RateLimitCooldown.String(),
	)
	s.sleep(ctx, s.cfg.RateLimitCooldown)

	_, err = s.syncer.SyncFixture(ctx, fx)
	return err
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func matchTopic(id int64) string {
	return fmt.Sprintf("match:%d", id)
}

func teamTopic(id int64) string {
	return fmt.Sprintf("team:%d", id)
}
