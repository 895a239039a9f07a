package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/infra/airtable"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/config"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/database"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/logger"
	redisinfra "github.com/moontonsl/communityheroesph-sub001/internal/infra/redis"
	postgresrepo "github.com/moontonsl/communityheroesph-sub001/internal/repository/postgres"
	syncpkg "github.com/moontonsl/communityheroesph-sub001/internal/sync"
)

// The standalone mirror worker. Drains the Redis sync queue and pushes entity
// snapshots to Airtable, independently of the API process.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, zl)
	if err != nil {
		zl.Fatal("failed to init postgres", zap.Error(err))
	}
	defer pool.Close()

	redisClient, err := redisinfra.NewClient(cfg.Redis, zl)
	if err != nil {
		zl.Fatal("failed to init redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	mirror, err := airtable.NewClient(cfg.Airtable, zl)
	if err != nil {
		zl.Fatal("failed to init airtable client", zap.Error(err))
	}

	repos := postgresrepo.NewRepositories(pool)
	queue := syncpkg.NewQueue(redisClient.Client(), syncpkg.Options{
		Enabled:       true,
		QueueName:     cfg.Sync.QueueName,
		RetryAttempts: cfg.Sync.RetryAttempts,
		RetryDelays:   cfg.Sync.RetryDelays,
	}, zl)

	worker := syncpkg.NewWorker(
		queue, mirror, repos.Submissions, repos.Events, repos.Reportings, repos.Users, zl)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Error("worker stopped", zap.Error(err))
		os.Exit(1)
	}
}
