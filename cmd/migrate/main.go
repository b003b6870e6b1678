package main

// Schema migrations for the photos and analyses tables.
//
//	go run ./cmd/migrate          apply pending migrations
//	go run ./cmd/migrate status   list migrations and when they were applied
//	go run ./cmd/migrate version  print the current schema version

import (
	"context"
	"os"
	"time"

	"makeup-backend/internal/shared/config"
	"makeup-backend/internal/shared/storage/db"
	"makeup-backend/internal/shared/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case "up", "status", "version":
	default:
		telemetry.Error("migrate.unknown_command", map[string]any{"command": command})
		return 2
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultOptions(db.ProfileMigrate)))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		return 1
	}
	defer pool.Close()

	switch command {
	case "up":
		err = db.RunMigrations(ctx, pool)
	case "status":
		err = db.MigrationStatus(ctx, pool)
	case "version":
		var v int64
		if v, err = db.SchemaVersion(ctx, pool); err == nil {
			telemetry.Info("migrate.version", map[string]any{"version": v})
		}
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err.Error()})
		return 1
	}
	return 0
}
