package footballdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/champi-dev/live-football/internal/platform/logging"
	"github.com/champi-dev/live-football/internal/platform/resilience"
	"github.com/champi-dev/live-football/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, mutate func(*ClientConfig)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		BaseURL: server.URL,
		Token:   "test-token",
		Logger:  logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestTodayFixtures_ParsesListing(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/matches" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Auth-Token"); got != "test-token" {
			t.Errorf("unexpected auth token header: %q", got)
		}
		if got := r.URL.Query().Get("dateFrom"); got != today {
			t.Errorf("unexpected dateFrom: %q", got)
		}
		if got := r.URL.Query().Get("dateTo"); got != today {
			t.Errorf("unexpected dateTo: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"matches":[{
			"id": 1001,
			"utcDate": "%sT15:00:00Z",
			"status": "IN_PLAY",
			"matchday": 12,
			"competition": {"id": 2021, "name": "Premier League", "code": "PL"},
			"homeTeam": {"id": 57, "name": "Arsenal FC", "shortName": "Arsenal", "tla": "ARS"},
			"awayTeam": {"id": 65, "name": "Manchester City FC", "shortName": "Man City", "tla": "MCI"},
			"score": {"fullTime": {"home": 2, "away": 1}, "halfTime": {"home": 1, "away": 0}}
		}]}`, today)
	}), nil)

	fixtures, err := client.TodayFixtures(context.Background())
	if err != nil {
		t.Fatalf("today fixtures: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("unexpected fixture count: %d", len(fixtures))
	}

	fx := fixtures[0]
	if fx.ID != 1001 {
		t.Fatalf("unexpected fixture id: %d", fx.ID)
	}
	if fx.LeagueID != 2021 || fx.LeagueName != "Premier League" {
		t.Fatalf("unexpected competition: %d %q", fx.LeagueID, fx.LeagueName)
	}
	if fx.Home.Team.ID != 57 || fx.Away.Team.ID != 65 {
		t.Fatalf("unexpected team ids: %d %d", fx.Home.Team.ID, fx.Away.Team.ID)
	}
	if fx.HomeScore == nil || *fx.HomeScore != 2 {
		t.Fatalf("unexpected home score: %v", fx.HomeScore)
	}
	if fx.HalfTimeHome == nil || *fx.HalfTimeHome != 1 {
		t.Fatalf("unexpected half time home score: %v", fx.HalfTimeHome)
	}
	if fx.Status != "IN_PLAY" {
		t.Fatalf("unexpected status: %q", fx.Status)
	}
}

func TestTodayFixtures_DegradesToEmptyOnUpstreamFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), nil)

	fixtures, err := client.TodayFixtures(context.Background())
	if err != nil {
		t.Fatalf("expected degraded empty result, got error: %v", err)
	}
	if len(fixtures) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(fixtures))
	}
}

func TestFixtureByID_RateLimited(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}), nil)

	_, err := client.FixtureByID(context.Background(), 1001)
	if !errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestFixtureByID_QuotaMessageCountsAsRateLimit(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "You exceeded your API rate limit"}`)
	}), nil)

	_, err := client.FixtureByID(context.Background(), 1001)
	if !errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestFixtureByID_CachesDetail(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": 1001,
			"utcDate": "2026-03-07T15:00:00Z",
			"status": "IN_PLAY",
			"competition": {"id": 2021, "name": "Premier League"},
			"homeTeam": {"id": 57, "name": "Arsenal FC"},
			"awayTeam": {"id": 65, "name": "Manchester City FC"},
			"score": {"fullTime": {"home": 1, "away": 0}}
		}`)
	}), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.FixtureByID(ctx, 1001); err != nil {
			t.Fatalf("fixture by id: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single upstream request, got %d", got)
	}
}

func TestSearchTeams_FiltersRostersAndSkipsFailedCompetitions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/competitions/PL/teams":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"teams":[
				{"id": 57, "name": "Arsenal FC", "shortName": "Arsenal", "tla": "ARS", "area": {"name": "England"}},
				{"id": 65, "name": "Manchester City FC", "shortName": "Man City", "tla": "MCI", "area": {"name": "England"}}
			]}`)
		case "/competitions/CL/teams":
			// Duplicate entry through a second competition.
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"teams":[{"id": 57, "name": "Arsenal FC", "shortName": "Arsenal", "tla": "ARS", "area": {"name": "England"}}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}), nil)

	teams, err := client.SearchTeams(context.Background(), "arsenal")
	if err != nil {
		t.Fatalf("search teams: %v", err)
	}
	if len(teams) != 1 {
		t.Fatalf("expected a single deduplicated result, got %d", len(teams))
	}
	if teams[0].ID != 57 || teams[0].Country != "England" {
		t.Fatalf("unexpected team: %+v", teams[0])
	}
}

func TestCircuitBreaker_OpensAfterTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})
	ctx := context.Background()

	for i := int64(1); i <= 2; i++ {
		if _, err := client.FixtureByID(ctx, i); err == nil {
			t.Fatalf("expected upstream failure for fixture %d", i)
		}
	}
	before := calls.Load()

	_, err := client.FixtureByID(ctx, 3)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once open, got %v", err)
	}
	if calls.Load() != before {
		t.Fatalf("open breaker must not reach upstream")
	}
}
