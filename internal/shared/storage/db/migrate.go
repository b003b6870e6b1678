package db

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var (
	gooseOnce sync.Once
	gooseErr  error
)

// goose keeps its settings in package globals; configure them once.
func setupGoose() error {
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrationFiles)
		goose.SetLogger(gooseLogger{})
		goose.SetTableName("makeup_schema_versions")
		gooseErr = goose.SetDialect("postgres")
	})
	return gooseErr
}

// RunMigrations brings the photos and analyses schema up to date.
// A nil pool means the in-memory repos are in use and there is nothing to do.
func RunMigrations(ctx context.Context, pool *sql.DB) error {
	if pool == nil {
		return nil
	}
	if err := setupGoose(); err != nil {
		return err
	}
	return goose.UpContext(ctx, pool, migrationsDir)
}

// MigrationStatus logs each embedded migration with its applied time.
func MigrationStatus(ctx context.Context, pool *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, pool, migrationsDir)
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(ctx context.Context, pool *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, pool)
}
