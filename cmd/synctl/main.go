package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/airtable"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/config"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/database"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/logger"
	postgresrepo "github.com/moontonsl/communityheroesph-sub001/internal/repository/postgres"
	syncpkg "github.com/moontonsl/communityheroesph-sub001/internal/sync"
	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

const usageText = `synctl - operational tooling for the Airtable mirror and MOA sweep

Commands:
  ping                       verify mirror connectivity
  resync-all                 push every submission, event, and report to the mirror
  resync-one <type> <id>     push one entity (type: submission | event | report)
  sweep                      flag approved submissions with lapsed MOAs
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

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

	repos := postgresrepo.NewRepositories(pool)

	switch cmd := flag.Arg(0); cmd {
	case "ping", "resync-all", "resync-one":
		mirror, err := airtable.NewClient(cfg.Airtable, zl)
		if err != nil {
			zl.Fatal("failed to init airtable client", zap.Error(err))
		}
		worker := syncpkg.NewWorker(
			nil, mirror, repos.Submissions, repos.Events, repos.Reportings, repos.Users, zl)
		resyncer := syncpkg.NewResyncer(worker, mirror, zl)
		runMirrorCommand(ctx, resyncer, cmd)

	case "sweep":
		submissions := usecase.NewSubmissionService(
			repos.Submissions, repos.Locations, nil, nil, nil, zl)
		count, err := submissions.SweepExpiredMoas(ctx, time.Now().UTC())
		if err != nil {
			zl.Fatal("sweep failed", zap.Error(err))
		}
		fmt.Printf("expired %d submission(s)\n", count)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
}

func runMirrorCommand(ctx context.Context, resyncer *syncpkg.Resyncer, cmd string) {
	switch cmd {
	case "ping":
		if err := resyncer.Ping(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "mirror unreachable: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("mirror reachable")

	case "resync-all":
		report, err := resyncer.ResyncAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("mirrored %d record(s): %d submissions, %d events, %d reports\n",
			report.Total(), report.Submissions, report.Events, report.Reports)
		for _, msg := range report.Errors {
			fmt.Fprintf(os.Stderr, "  error: %s\n", msg)
		}
		if len(report.Errors) > 0 {
			os.Exit(1)
		}

	case "resync-one":
		if flag.NArg() != 3 {
			fmt.Fprintln(os.Stderr, "usage: synctl resync-one <type> <id>")
			os.Exit(2)
		}
		entityType, err := parseEntityType(flag.Arg(1))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if err := resyncer.ResyncOne(ctx, entityType, flag.Arg(2)); err != nil {
			fmt.Fprintf(os.Stderr, "resync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("record mirrored")
	}
}

func parseEntityType(raw string) (domain.SyncEntityType, error) {
	switch raw {
	case "submission":
		return domain.SyncEntitySubmission, nil
	case "event":
		return domain.SyncEntityEvent, nil
	case "report":
		return domain.SyncEntityReport, nil
	default:
		return "", fmt.Errorf("unknown entity type %q (want submission, event, or report)", raw)
	}
}
