package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/airtable"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/config"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/database"
	kafkainfra "github.com/moontonsl/communityheroesph-sub001/internal/infra/kafka"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/logger"
	redisinfra "github.com/moontonsl/communityheroesph-sub001/internal/infra/redis"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/security"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/storage"
	postgresrepo "github.com/moontonsl/communityheroesph-sub001/internal/repository/postgres"
	syncpkg "github.com/moontonsl/communityheroesph-sub001/internal/sync"
	"github.com/moontonsl/communityheroesph-sub001/internal/transport/http/middleware"
	"github.com/moontonsl/communityheroesph-sub001/internal/transport/http/routes"
	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

// Application wires configuration, infrastructure, services and transport into
// one runnable unit.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	kafka  *kafkainfra.Producer

	submissions *usecase.SubmissionService
	syncWorker  *syncpkg.Worker
}

// New builds the application graph from loaded configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	if err := security.ConfigureArgon2(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}); err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	documents, err := storage.NewLocal(cfg.Storage.Root, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init document store: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	syncQueue := syncpkg.NewQueue(redisClient.Client(), syncpkg.Options{
		Enabled:       cfg.Sync.Enabled,
		QueueName:     cfg.Sync.QueueName,
		RetryAttempts: cfg.Sync.RetryAttempts,
		RetryDelays:   cfg.Sync.RetryDelays,
	}, log)

	var kafkaProducer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("kafka producer unavailable, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	authService := usecase.NewAuthService(repos.Users, tokens, log)
	userService := usecase.NewUserService(repos.Users, repos.Roles)
	roleService := usecase.NewRoleService(repos.Roles)
	locationService := usecase.NewLocationService(repos.Locations)
	submissionService := usecase.NewSubmissionService(
		repos.Submissions, repos.Locations, documents, syncQueue, eventPublisher, log)
	eventService := usecase.NewEventService(
		repos.Events, submissionService, repos.Submissions, documents, syncQueue, eventPublisher, log)
	reportingService := usecase.NewReportingService(
		repos.Reportings, repos.Events, documents, syncQueue, eventPublisher, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Logger:   log,
		Database: pool,
		Cache:    redisClient,
		Metrics:  metrics,
		Services: routes.ServiceSet{
			Auth:        authService,
			Users:       userService,
			Roles:       roleService,
			Locations:   locationService,
			Submissions: submissionService,
			Events:      eventService,
			Reportings:  reportingService,
		},
		AllowedOrigins: []string{"*"},
	})

	app := &Application{
		cfg:         cfg,
		engine:      engine,
		logger:      log,
		pool:        pool,
		redis:       redisClient,
		kafka:       kafkaProducer,
		submissions: submissionService,
	}

	// The mirror worker runs in-process when Airtable is configured; otherwise
	// enqueued tasks wait for an external worker.
	if cfg.Sync.Enabled && cfg.Airtable.Token != "" {
		mirror, err := airtable.NewClient(cfg.Airtable, log)
		if err != nil {
			log.Warn("airtable client unavailable, sync worker disabled", zap.Error(err))
		} else {
			app.syncWorker = syncpkg.NewWorker(
				syncQueue, mirror, repos.Submissions, repos.Events, repos.Reportings, repos.Users, log)
		}
	}

	return app, nil
}

// Run starts the HTTP server plus the background loops and blocks until the
// context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.kafka != nil {
			_ = a.kafka.Close()
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.syncWorker != nil {
		go func() {
			if err := a.syncWorker.Run(runCtx); err != nil && runCtx.Err() == nil {
				a.logger.Error("sync worker stopped", zap.Error(err))
			}
		}()
	}

	if a.cfg.Sweep.Enabled {
		go a.runSweep(runCtx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting community heroes API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

// runSweep periodically flags approved submissions whose MOA has lapsed.
func (a *Application) runSweep(ctx context.Context) {
	interval := a.cfg.Sweep.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := a.submissions.SweepExpiredMoas(ctx, time.Now().UTC())
			if err != nil {
				a.logger.Error("moa expiry sweep failed", zap.Error(err))
				continue
			}
			if count > 0 {
				a.logger.Info("moa expiry sweep completed", zap.Int("expired", count))
			}
		}
	}
}
