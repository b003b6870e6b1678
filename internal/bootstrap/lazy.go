package bootstrap

import (
	"sync"
	"time"

	"makeup-backend/internal/shared/config"
	"makeup-backend/internal/shared/telemetry"
)

// Lazy builds the App on first use and caches the outcome for the life of
// a Lambda container, so later invocations reuse the warm pools.
type Lazy struct {
	// Load defaults to config.Load.
	Load func() config.Config

	once sync.Once
	app  *App
	err  error
}

// Get returns the cached App or the error from the single Build attempt.
func (l *Lazy) Get() (*App, error) {
	l.once.Do(func() {
		load := l.Load
		if load == nil {
			load = config.Load
		}
		start := time.Now()
		l.app, l.err = Build(load())
		fields := map[string]any{"duration_ms": time.Since(start).Milliseconds()}
		if l.err != nil {
			fields["error"] = l.err.Error()
			telemetry.Error("bootstrap.cold_start_failed", fields)
			return
		}
		telemetry.Info("bootstrap.cold_start", fields)
	})
	return l.app, l.err
}
