package main

// Load the bundled career and skill catalog into Postgres:
//   go run ./cmd/seed

import (
	"context"
	"os"

	"career-backend/internal/catalog"
	"career-backend/internal/shared/config"
	"career-backend/internal/shared/storage/db"
	"career-backend/internal/shared/telemetry"
)

func main() {
	if err := run(context.Background()); err != nil {
		telemetry.Error("seed.failed", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	telemetry.Setup("career-seed", cfg.Env)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultCLIOptions()))
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return err
	}
	n, err := catalog.Seed(ctx, &catalog.PGRepo{DB: sqlDB})
	if err != nil {
		return err
	}
	telemetry.Info("seed.done", map[string]any{"records": n})
	return nil
}
