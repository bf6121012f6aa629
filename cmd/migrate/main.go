package main

// Run database migrations:
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate -command status
//   go run ./cmd/migrate -command down

import (
	"context"
	"flag"
	"fmt"
	"os"

	"career-backend/internal/shared/config"
	"career-backend/internal/shared/storage/db"
	"career-backend/internal/shared/telemetry"
)

func main() {
	command := flag.String("command", "up", "up, down or status")
	flag.Parse()

	if err := run(context.Background(), *command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": *command, "error": err})
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	telemetry.Setup("career-migrate", cfg.Env)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultCLIOptions()))
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	switch command {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "down":
		err = db.RollbackLast(ctx, sqlDB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if err == nil {
		telemetry.Info("migrate.done", map[string]any{"command": command})
	}
	return err
}
