package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consulta-vehicular/internal/config"
	"consulta-vehicular/internal/infra/api"
	"consulta-vehicular/internal/infra/db/postgres"
	"consulta-vehicular/internal/infra/logging"
	"consulta-vehicular/internal/infra/lookup"
	"consulta-vehicular/internal/infra/metrics"
	"consulta-vehicular/internal/infra/redis"
	"consulta-vehicular/internal/infra/scheduler"
	"consulta-vehicular/internal/infra/web"
	"consulta-vehicular/internal/infra/worker"
	"consulta-vehicular/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the config file")
	dev := flag.Bool("dev", false, "enable development mode")
	migrationsDir := flag.String("migrations", "migrations", "path to the goose migrations")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath, *dev)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	if err := postgres.RunMigrations(cfg.Database.URL, *migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info().Msg("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer dbPool.Close()

	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	// persistence
	txManager := postgres.NewTxManager(dbPool)
	planRepo := postgres.NewPlanRepoCacheDecorator(postgres.NewPostgresPlanRepo(dbPool), redisClient)
	grantRepo := postgres.NewPostgresGrantRepo(dbPool)
	consultaRepo := postgres.NewPostgresConsultationRepo(dbPool)
	snapshotCache := redis.NewSnapshotCache(redisClient, cfg.Redis.TTL)

	// adapters
	lookupClient := lookup.NewClient(cfg.Lookup)

	// use cases
	ledgerUC := usecase.NewLedgerUC(planRepo, grantRepo, txManager, snapshotCache, log)
	enrichUC := usecase.NewEnrichUC(lookupClient, log)
	workerPool := worker.NewPool(cfg.Workers, cfg.Workers*4, *log)
	workerPool.Start(ctx)
	defer workerPool.Stop()
	consultaUC := usecase.NewConsultaUC(ledgerUC, consultaRepo, lookupClient, enrichUC, workerPool, log)

	// background maintenance
	sched := scheduler.New(*log,
		scheduler.Task{
			Name:     "prune-states",
			Interval: cfg.Scheduler.PruneInterval,
			Run: func(context.Context) error {
				n := consultaUC.PruneStates(cfg.Scheduler.StateTTL)
				if n > 0 {
					log.Debug().Int("pruned", n).Msg("consultation states pruned")
				}
				return nil
			},
		},
		scheduler.Task{
			Name:     "plan-warmup",
			Interval: cfg.Redis.TTL,
			Run: func(tctx context.Context) error {
				_, err := ledgerUC.ListPlans(tctx)
				return err
			},
		},
	)
	sched.Start(ctx)
	defer sched.Stop()

	authManager := web.NewAuthManager(cfg.API.JWTSecret, cfg.API.SessionTTL)
	server := api.NewServer(cfg.API.Port, ledgerUC, consultaUC, enrichUC, authManager, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
