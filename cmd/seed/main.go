// Command seed loads the default plan catalog into the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"consulta-vehicular/internal/config"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/repository"
	"consulta-vehicular/internal/infra/db/postgres"
	"consulta-vehicular/internal/infra/logging"

	"github.com/joho/godotenv"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

type planSeed struct {
	id             string
	nombre         string
	totalConsultas *int
	duracionDias   *int
	precioCentimos *int64
}

var catalog = []planSeed{
	{"gratis", "Gratis", intPtr(3), intPtr(30), int64Ptr(0)},
	{"basico", "Básico", intPtr(30), intPtr(30), int64Ptr(990)},
	{"estandar", "Estándar", intPtr(100), intPtr(30), int64Ptr(1990)},
	{"ilimitado", "Ilimitado", nil, intPtr(30), int64Ptr(3990)},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the config file")
	migrationsDir := flag.String("migrations", "migrations", "path to the goose migrations")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath, true)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.Log, true)

	if err := postgres.RunMigrations(cfg.Database.URL, *migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	planRepo := postgres.NewPostgresPlanRepo(pool)
	for _, s := range catalog {
		plan, err := model.NewPlan(s.id, s.nombre, s.totalConsultas, s.duracionDias, s.precioCentimos)
		if err != nil {
			return fmt.Errorf("build plan %s: %w", s.id, err)
		}
		if err := planRepo.Save(ctx, repository.NoTX, plan); err != nil {
			return fmt.Errorf("save plan %s: %w", s.id, err)
		}
		log.Info().Str("plan", s.id).Msg("plan seeded")
	}
	return nil
}
