package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"makeup-backend/internal/bootstrap"
	"makeup-backend/internal/queue"
	"makeup-backend/internal/shared/config"
	"makeup-backend/internal/shared/telemetry"
	"makeup-backend/internal/workerproc"
)

const (
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()
	if cfg.QueueURL == "" {
		telemetry.Error("worker.config_missing", map[string]any{"key": "MAKEUP_SQS_QUEUE_URL"})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibility := time.Duration(envInt("MAKEUP_SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)) * time.Second
	concurrency := envInt("MAKEUP_WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("MAKEUP_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	consumer, err := queue.NewSQSClient(ctx, cfg.QueueURL, cfg.AWSRegion)
	if err != nil {
		telemetry.Error("worker.queue_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	consumer.VisibilityTimeout = visibility

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer app.Close()

	runner := &workerproc.Runner{
		Consumer:    consumer,
		Processor:   app.AnalysisProcessor,
		Concurrency: concurrency,
	}

	telemetry.Info("worker.started", map[string]any{
		"queue_url":          cfg.QueueURL,
		"concurrency":        concurrency,
		"visibility_seconds": int(visibility / time.Second),
	})

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	select {
	case err := <-done:
		logStopped(err)
		return
	case <-ctx.Done():
	}

	telemetry.Info("worker.draining", map[string]any{"timeout": shutdownTimeout.String()})
	select {
	case err := <-done:
		logStopped(err)
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", map[string]any{"timeout": shutdownTimeout.String()})
	}
}

func logStopped(err error) {
	if err != nil {
		telemetry.Error("worker.stopped", map[string]any{"error": err.Error()})
		return
	}
	telemetry.Info("worker.stopped", nil)
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}
