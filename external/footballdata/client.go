package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"
	"github.com/champi-dev/live-football/internal/platform/cache"
	"github.com/champi-dev/live-football/internal/platform/logging"
	"github.com/champi-dev/live-football/internal/platform/resilience"
	"github.com/champi-dev/live-football/internal/usecase"
)

const (
	defaultBaseURL = "https://api.football-data.org/v4"
	authHeader     = "X-Auth-Token"

	cacheTTLListing  = 30 * time.Second
	cacheTTLLive     = time.Minute
	cacheTTLFinished = time.Hour
	cacheTTLTeam     = 24 * time.Hour
)

// Competition codes scanned by SearchTeams, in the order results are
// preferred.
var searchCompetitionCodes = []string{"PL", "PD", "SA", "BL1", "FL1", "CL"}

var errFootballDataTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Cache          *cache.Store
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football-data.org v4 API. Responses are cached with
// endpoint-appropriate TTLs; concurrent identical requests are collapsed.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	cache          *cache.Store
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	store := cfg.Cache
	if store == nil {
		store = cache.NewStore(cacheTTLListing)
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		cache:          store,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// TodayFixtures lists today's fixtures across all competitions in the
// subscription. Upstream failure degrades to an empty slice.
func (c *Client) TodayFixtures(ctx context.Context) ([]usecase.UpstreamFixture, error) {
	day := c.now().UTC().Format("2006-01-02")
	key := "fd:matches:today:" + day

	v, err := c.cache.GetOrLoad(ctx, key, cacheTTLListing, func(ctx context.Context) (any, error) {
		var envelope matchesEnvelope
		if err := c.doJSON(ctx, "/matches", map[string]string{
			"dateFrom": day,
			"dateTo":   day,
		}, &envelope); err != nil {
			c.logger.WarnContext(ctx, "today fixtures fetch failed, serving empty list", "error", err)
			return []usecase.UpstreamFixture(nil), nil
		}
		return mapFixtures(envelope.Matches), nil
	})
	if err != nil {
		return nil, err
	}

	out, _ := v.([]usecase.UpstreamFixture)
	return out, nil
}

// FixturesByDateRange lists fixtures between two dates inclusive. Upstream
// failure degrades to an empty slice.
func (c *Client) FixturesByDateRange(ctx context.Context, from, to time.Time) ([]usecase.UpstreamFixture, error) {
	dateFrom := from.UTC().Format("2006-01-02")
	dateTo := to.UTC().Format("2006-01-02")
	key := "fd:matches:range:" + dateFrom + ":" + dateTo

	v, err := c.cache.GetOrLoad(ctx, key, cacheTTLListing, func(ctx context.Context) (any, error) {
		var envelope matchesEnvelope
		if err := c.doJSON(ctx, "/matches", map[string]string{
			"dateFrom": dateFrom,
			"dateTo":   dateTo,
		}, &envelope); err != nil {
			c.logger.WarnContext(ctx, "date range fetch failed, serving empty list",
				"date_from", dateFrom,
				"date_to", dateTo,
				"error", err,
			)
			return []usecase.UpstreamFixture(nil), nil
		}
		return mapFixtures(envelope.Matches), nil
	})
	if err != nil {
		return nil, err
	}

	out, _ := v.([]usecase.UpstreamFixture)
	return out, nil
}

// FixtureByID fetches one fixture with its detail collections. Errors
// propagate; rate limiting satisfies errors.Is(err, usecase.ErrRateLimited).
func (c *Client) FixtureByID(ctx context.Context, id int64) (usecase.UpstreamFixture, error) {
	if id <= 0 {
		return usecase.UpstreamFixture{}, fmt.Errorf("fixture id must be greater than zero")
	}

	key := fmt.Sprintf("fd:match:%d", id)
	if cached, ok := c.cache.Get(ctx, key); ok {
		if fx, ok := cached.(usecase.UpstreamFixture); ok {
			return fx, nil
		}
	}

	var payload matchPayload
	if err := c.doJSON(ctx, fmt.Sprintf("/matches/%d", id), nil, &payload); err != nil {
		return usecase.UpstreamFixture{}, fmt.Errorf("fetch fixture %d: %w", id, err)
	}

	fx := mapFixture(payload)
	ttl := cacheTTLLive
	if fx.Status == "FINISHED" || fx.Status == "AWARDED" {
		ttl = cacheTTLFinished
	}
	c.cache.Set(ctx, key, fx, ttl)
	return fx, nil
}

// TeamByID fetches one club. Team payloads change rarely and cache for a day.
func (c *Client) TeamByID(ctx context.Context, id int64) (usecase.UpstreamTeam, error) {
	if id <= 0 {
		return usecase.UpstreamTeam{}, fmt.Errorf("team id must be greater than zero")
	}

	key := fmt.Sprintf("fd:team:%d", id)
	v, err := c.cache.GetOrLoad(ctx, key, cacheTTLTeam, func(ctx context.Context) (any, error) {
		var payload teamPayload
		if err := c.doJSON(ctx, fmt.Sprintf("/teams/%d", id), nil, &payload); err != nil {
			return nil, fmt.Errorf("fetch team %d: %w", id, err)
		}
		return mapTeamPayload(payload), nil
	})
	if err != nil {
		return usecase.UpstreamTeam{}, err
	}

	out, _ := v.(usecase.UpstreamTeam)
	return out, nil
}

// SearchTeams scans the major competition rosters in parallel and filters
// them by name client-side; the upstream has no search endpoint. A
// competition that fails to load is skipped.
func (c *Client) SearchTeams(ctx context.Context, query string) ([]usecase.UpstreamTeam, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, fmt.Errorf("search query is required")
	}

	var mu sync.Mutex
	byCode := make(map[string][]upstreamTeamRow, len(searchCompetitionCodes))

	var wg conc.WaitGroup
	for _, code := range searchCompetitionCodes {
		code := code
		wg.Go(func() {
			teams, err := c.competitionTeams(ctx, code)
			if err != nil {
				c.logger.WarnContext(ctx, "competition roster fetch failed, skipping",
					"competition", code,
					"error", err,
				)
				return
			}
			mu.Lock()
			byCode[code] = teams
			mu.Unlock()
		})
	}
	wg.Wait()

	out := make([]usecase.UpstreamTeam, 0, 8)
	seen := make(map[int64]struct{}, 8)
	for _, code := range searchCompetitionCodes {
		for _, row := range byCode[code] {
			if !strings.Contains(strings.ToLower(row.Name), needle) &&
				!strings.Contains(strings.ToLower(row.ShortName), needle) {
				continue
			}
			if _, dup := seen[row.ID]; dup {
				continue
			}
			seen[row.ID] = struct{}{}
			out = append(out, mapTeamRow(row))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *Client) competitionTeams(ctx context.Context, code string) ([]upstreamTeamRow, error) {
	key := "fd:competition:" + code + ":teams"
	v, err := c.cache.GetOrLoad(ctx, key, cacheTTLTeam, func(ctx context.Context) (any, error) {
		var envelope competitionTeamsEnvelope
		if err := c.doJSON(ctx, "/competitions/"+code+"/teams", nil, &envelope); err != nil {
			return nil, err
		}
		return envelope.Teams, nil
	})
	if err != nil {
		return nil, err
	}

	teams, _ := v.([]upstreamTeamRow)
	return teams, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set(authHeader, c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballDataTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRateLimitResponse(resp.StatusCode, raw):
				// Rate limits are never retried here; the caller owns
				// the cooldown policy.
				return nil, fmt.Errorf("%w: provider status=%d", usecase.ErrRateLimited, resp.StatusCode)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errFootballDataTransient) || stderrors.Is(err, usecase.ErrRateLimited)
}

// isRateLimitResponse recognises both the 429 status and the quota message
// some plans return with a 200-adjacent error status.
func isRateLimitResponse(code int, body []byte) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	text := strings.ToLower(string(body))
	return strings.Contains(text, "rate limit") || strings.Contains(text, "requests available")
}

func isRetryableStatus(code int) bool {
	return code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
