package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"makeup-backend/internal/shared/telemetry"
)

// ErrNoDatabaseURL is returned when Connect is called without a DSN.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is empty")

// Profile selects pool defaults for the kind of process holding the pool.
type Profile string

const (
	ProfileLambda  Profile = "lambda"
	ProfileServer  Profile = "server"
	ProfileMigrate Profile = "migrate"
)

// Options tunes the database/sql pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

const defaultPingTimeout = 5 * time.Second

var openDB = sql.Open

// IsLambdaRuntime reports whether the process runs inside AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// RuntimeProfile picks ProfileLambda inside Lambda and ProfileServer elsewhere.
func RuntimeProfile() Profile {
	if IsLambdaRuntime() {
		return ProfileLambda
	}
	return ProfileServer
}

// DefaultOptions returns pool settings for p. Lambda containers each hold
// their own pool, so they stay small to keep Postgres under max_connections.
func DefaultOptions(p Profile) Options {
	switch p {
	case ProfileLambda:
		return Options{
			MaxOpenConns:    2,
			MaxIdleConns:    1,
			ConnMaxLifetime: 15 * time.Minute,
			ConnMaxIdleTime: 30 * time.Second,
			PingTimeout:     3 * time.Second,
		}
	case ProfileMigrate:
		return Options{
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
			PingTimeout:     10 * time.Second,
		}
	default:
		return Options{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 2 * time.Minute,
			PingTimeout:     defaultPingTimeout,
		}
	}
}

// OptionsFromEnv layers MAKEUP_DB_* overrides on top of base. Unparseable
// or non-positive values are logged and ignored.
func OptionsFromEnv(base Options) Options {
	opts := base
	ints := []struct {
		key string
		dst *int
	}{
		{"MAKEUP_DB_MAX_OPEN_CONNS", &opts.MaxOpenConns},
		{"MAKEUP_DB_MAX_IDLE_CONNS", &opts.MaxIdleConns},
	}
	for _, e := range ints {
		if v, ok := envInt(e.key); ok {
			*e.dst = v
		}
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"MAKEUP_DB_CONN_MAX_LIFETIME", &opts.ConnMaxLifetime},
		{"MAKEUP_DB_CONN_MAX_IDLE_TIME", &opts.ConnMaxIdleTime},
		{"MAKEUP_DB_PING_TIMEOUT", &opts.PingTimeout},
	}
	for _, e := range durations {
		if v, ok := envDuration(e.key); ok {
			*e.dst = v
		}
	}
	return opts
}

// Connect opens a pgx-backed pool and pings it before returning.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return nil, ErrNoDatabaseURL
	}

	pool, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", redactDSN(databaseURL), err)
	}
	configurePool(pool, opts)

	if err := Ping(ctx, pool, opts.PingTimeout); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s: %w", redactDSN(databaseURL), err)
	}

	stats := pool.Stats()
	telemetry.Info("db.connected", map[string]any{
		"target":   redactDSN(databaseURL),
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
	})
	return pool, nil
}

// Ping checks connectivity within timeout. Zero means the default.
func Ping(ctx context.Context, pool *sql.DB, timeout time.Duration) error {
	if pool == nil {
		return errors.New("database not configured")
	}
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return pool.PingContext(pingCtx)
}

// warm holds the pool shared by every invocation of a Lambda container.
var warm struct {
	mu      sync.Mutex
	pool    *sql.DB
	pending chan struct{}
}

// GetSingleton returns the container-wide pool, connecting on first use.
// Concurrent callers wait for the in-flight attempt; a failed attempt is
// not cached, so the next call connects again.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	for {
		warm.mu.Lock()
		if warm.pool != nil {
			pool := warm.pool
			warm.mu.Unlock()
			return pool, nil
		}
		if wait := warm.pending; wait != nil {
			warm.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		done := make(chan struct{})
		warm.pending = done
		warm.mu.Unlock()

		pool, err := Connect(ctx, databaseURL, opts)

		warm.mu.Lock()
		if err == nil {
			warm.pool = pool
		}
		warm.pending = nil
		close(done)
		warm.mu.Unlock()

		if err != nil {
			telemetry.Warn("db.warm_pool_failed", map[string]any{"error": err.Error()})
			return nil, err
		}
		telemetry.Info("db.warm_pool_ready", nil)
		return pool, nil
	}
}

func configurePool(pool *sql.DB, opts Options) {
	def := DefaultOptions(ProfileServer)
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = def.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 || opts.MaxIdleConns > opts.MaxOpenConns {
		opts.MaxIdleConns = opts.MaxOpenConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = def.ConnMaxLifetime
	}
	pool.SetMaxOpenConns(opts.MaxOpenConns)
	pool.SetMaxIdleConns(opts.MaxIdleConns)
	pool.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

// redactDSN keeps host and database name for logs and drops credentials.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return "postgres"
	}
	return u.Host + u.Path
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		telemetry.Warn("db.env_ignored", map[string]any{"key": key, "value": raw})
		return 0, false
	}
	return v, true
}

func envDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		telemetry.Warn("db.env_ignored", map[string]any{"key": key, "value": raw})
		return 0, false
	}
	return v, true
}
