package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/champi-dev/live-football/external/accounts"
	"github.com/champi-dev/live-football/external/footballdata"
	"github.com/champi-dev/live-football/internal/config"
	"github.com/champi-dev/live-football/internal/domain/team"
	cacherepo "github.com/champi-dev/live-football/internal/infrastructure/repository/cache"
	"github.com/champi-dev/live-football/internal/infrastructure/repository/postgres"
	"github.com/champi-dev/live-football/internal/interfaces/httpapi"
	"github.com/champi-dev/live-football/internal/platform/cache"
	"github.com/champi-dev/live-football/internal/platform/logging"
	"github.com/champi-dev/live-football/internal/platform/resilience"
	"github.com/champi-dev/live-football/internal/realtime"
	"github.com/champi-dev/live-football/internal/usecase"
)

// App bundles the wired HTTP server with the long-running pieces that
// main has to start and stop around it.
type App struct {
	Server    *http.Server
	Scheduler *usecase.SyncSchedulerService
	Hub       *realtime.Hub

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	matchRepo := postgres.NewMatchRepository(db)
	pgTeamRepo := postgres.NewTeamRepository(db)
	eventRepo := postgres.NewMatchEventRepository(db)
	lineupRepo := postgres.NewLineupRepository(db)
	statRepo := postgres.NewMatchStatRepository(db)
	insightRepo := postgres.NewInsightRepository(db)
	followRepo := postgres.NewFollowRepository(db)

	// The sync loop looks the same teams up on every tick, so it gets a
	// read-through layer. Query services keep their own response caches.
	var syncTeamRepo team.Repository = pgTeamRepo
	if cfg.CacheEnabled {
		syncTeamRepo = cacherepo.NewTeamRepository(pgTeamRepo, cache.NewStore(cfg.CacheTTL), cfg.CacheTTL)
	}

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		Token:      cfg.FootballDataToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
	})

	accountsClient := accounts.NewClient(accounts.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AccountsTimeout},
		BaseURL:        cfg.AccountsBaseURL,
		IntrospectPath: cfg.AccountsIntrospectPath,
		PrincipalTTL:   cfg.AccountsPrincipalTTL,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountsCircuitEnabled,
			FailureThreshold: cfg.AccountsCircuitFailureCount,
			OpenTimeout:      cfg.AccountsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountsCircuitHalfOpenMaxReq,
		},
	})

	hub := realtime.NewHub(logger)
	store := cache.NewStore(cfg.CacheTTL)

	syncer := usecase.NewMatchSyncService(provider, matchRepo, syncTeamRepo, eventRepo, lineupRepo, statRepo, logger)
	scheduler := usecase.NewSyncSchedulerService(provider, syncer, hub, usecase.SyncSchedulerConfig{
		Interval:          cfg.SyncInterval,
		ActiveStartHour:   &cfg.SyncActiveStartHour,
		ActiveEndHour:     &cfg.SyncActiveEndHour,
		BackfillWorkers:   cfg.SyncBackfillWorkers,
		RateLimitCooldown: cfg.SyncRateLimitCooldown,
	}, logger)

	queries := usecase.NewMatchQueryService(matchRepo, pgTeamRepo, eventRepo, lineupRepo, statRepo, insightRepo, store)
	teamSvc := usecase.NewTeamService(pgTeamRepo, followRepo, provider, store, logger)
	// No commentary backend is configured yet; generation requests fail
	// with a dependency error while stored insights stay readable.
	insightSvc := usecase.NewInsightService(insightRepo, queries, nil, hub, nil, store, logger)

	handler := httpapi.NewHandler(queries, teamSvc, insightSvc, scheduler, hub, logger)
	router := httpapi.NewRouter(handler, accountsClient, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:    server,
		Scheduler: scheduler,
		Hub:       hub,
		db:        db,
	}, nil
}

// Close stops the sync loop and releases the database pool. The HTTP
// server is shut down separately by main.
func (a *App) Close() error {
	a.Scheduler.Stop()

	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	return nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)

	return db, nil
}
