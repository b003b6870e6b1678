package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"makeup-backend/internal/photos"
	"makeup-backend/internal/queue"
	"makeup-backend/internal/shared/cache"
	"makeup-backend/internal/shared/metrics"
	"makeup-backend/internal/shared/storage/object"
	"makeup-backend/internal/shared/telemetry"
	"makeup-backend/internal/vision"
)

const (
	defaultJobTimeout = 90 * time.Second
	defaultCacheTTL   = 24 * time.Hour
)

// PhotoSource resolves owner-scoped photos and their bytes.
type PhotoSource interface {
	Get(ctx context.Context, userID, photoID string) (photos.Photo, error)
	Load(ctx context.Context, userID, photoID string) (photos.Photo, []byte, error)
}

// Service contains business logic for analyses. With a Queue the job is
// handed to a worker; otherwise it runs in a background goroutine that
// Cancel can interrupt.
type Service struct {
	Repo     Repo
	Photos   PhotoSource
	Analyzer vision.Analyzer
	Cache    cache.Cache
	CacheTTL time.Duration
	Queue    queue.Client
	Timeout  time.Duration
	Now      func() time.Time

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
	wg       sync.WaitGroup
	closed   bool
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create stores a queued analysis for the photo and dispatches it.
func (s *Service) Create(ctx context.Context, photoID, userID string, hint Hint) (Analysis, error) {
	if strings.TrimSpace(photoID) == "" || strings.TrimSpace(userID) == "" {
		return Analysis{}, ErrInvalidInput
	}
	if s.Analyzer == nil {
		return Analysis{}, vision.ErrAnalyzerUnavailable
	}

	if _, err := s.Photos.Get(ctx, userID, photoID); err != nil {
		if errors.Is(err, photos.ErrNotFound) {
			return Analysis{}, ErrPhotoNotFound
		}
		return Analysis{}, err
	}

	analysis := Analysis{
		ID:                 uuid.NewString(),
		PhotoID:            photoID,
		UserID:             userID,
		Provider:           s.Analyzer.Name(),
		Status:             StatusQueued,
		LastKnownSkinTone:  strings.TrimSpace(hint.SkinTone),
		LastKnownUndertone: strings.TrimSpace(hint.Undertone),
		CreatedAt:          s.now(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}

	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"photo_id":          photoID,
		"analysis_id":       analysis.ID,
		"status":            StatusQueued,
		"status_transition": "->queued",
	})

	if s.Queue != nil {
		msg := queue.NewMessage(analysis.ID, requestIDFromContext(ctx), analysis.CreatedAt)
		if err := s.Queue.Send(ctx, msg); err != nil {
			s.failAnalysis(ctx, analysis, fmt.Errorf("enqueue: %w", err), nil)
			return Analysis{}, err
		}
		return analysis, nil
	}

	if err := s.startLocal(ctx, analysis.ID); err != nil {
		s.failAnalysis(ctx, analysis, err, nil)
		return Analysis{}, err
	}
	return analysis, nil
}

func (s *Service) startLocal(ctx context.Context, analysisID string) error {
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return ErrShuttingDown
	}
	if s.inflight == nil {
		s.inflight = make(map[string]context.CancelFunc)
	}
	s.inflight[analysisID] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.forget(analysisID)
		if err := s.ProcessAnalysis(jobCtx, analysisID); err != nil {
			telemetry.Error("analysis.process_failed", map[string]any{
				"request_id":  requestIDFromContext(jobCtx),
				"analysis_id": analysisID,
				"error":       err.Error(),
			})
		}
	}()
	return nil
}

func (s *Service) forget(analysisID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.inflight[analysisID]; ok {
		cancel()
		delete(s.inflight, analysisID)
	}
}

// Wait blocks until every background job has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Shutdown cancels in-flight background jobs and waits for them, giving up
// when ctx is done.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for _, cancel := range s.inflight {
		cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns an analysis owned by userID.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if strings.TrimSpace(analysisID) == "" {
		return Analysis{}, ErrInvalidInput
	}
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if analysis.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// List returns analyses for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Cancel marks an unfinished analysis failed with CANCELLED and stops its
// background goroutine when one is running in this process.
func (s *Service) Cancel(ctx context.Context, userID, analysisID string) (Analysis, error) {
	analysis, err := s.Get(ctx, userID, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if analysis.Terminal() {
		return analysis, ErrAlreadyFinished
	}

	completedAt := s.now()
	if err := s.Repo.Fail(ctx, analysisID, ErrorCodeCancelled, "cancelled by user", completedAt); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			latest, getErr := s.Repo.GetByID(ctx, analysisID)
			if getErr != nil {
				return Analysis{}, getErr
			}
			return latest, ErrAlreadyFinished
		}
		return Analysis{}, err
	}

	s.mu.Lock()
	if cancel, ok := s.inflight[analysisID]; ok {
		cancel()
	}
	s.mu.Unlock()

	metrics.IncAnalysisFailed(ErrorCodeCancelled)
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"photo_id":          analysis.PhotoID,
		"analysis_id":       analysisID,
		"status":            StatusFailed,
		"status_transition": analysis.Status + "->failed",
		"error_code":        ErrorCodeCancelled,
	})

	return s.Repo.GetByID(ctx, analysisID)
}

// ProcessAnalysis runs one job to a terminal state. It returns nil once the
// outcome is recorded, including a recorded failure, and an error only when
// the job should be retried. Terminal jobs are skipped so redelivered
// messages are harmless.
func (s *Service) ProcessAnalysis(ctx context.Context, analysisID string) (err error) {
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return fmt.Errorf("analysis lookup: %w", err)
	}
	if analysis.Terminal() {
		return nil
	}

	startedAt := s.now()
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, analysis, fmt.Errorf("panic: %v", r), &startedAt)
			err = nil
		}
	}()

	if err := s.Repo.MarkProcessing(ctx, analysisID, startedAt); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil
		}
		return fmt.Errorf("%w: set processing: %w", errStorage, err)
	}
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           analysis.UserID,
		"photo_id":          analysis.PhotoID,
		"analysis_id":       analysis.ID,
		"status":            StatusProcessing,
		"status_transition": analysis.Status + "->processing",
	})

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, cached, err := s.analyze(jobCtx, analysis)
	if err != nil {
		s.failAnalysis(ctx, analysis, err, &startedAt)
		return nil
	}

	completedAt := s.now()
	if err := s.Repo.Complete(context.WithoutCancel(ctx), analysisID, result, completedAt); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			// Cancelled while the analyzer was running.
			return nil
		}
		return fmt.Errorf("%w: set result: %w", errStorage, err)
	}

	if cached {
		metrics.IncAnalysisCacheHit()
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           analysis.UserID,
		"photo_id":          analysis.PhotoID,
		"analysis_id":       analysis.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &completedAt),
		"cache_hit":         cached,
	})
	return nil
}

func (s *Service) analyze(ctx context.Context, analysis Analysis) (vision.Result, bool, error) {
	if s.Photos == nil {
		return vision.Result{}, false, fmt.Errorf("%w: photo source not configured", errStorage)
	}
	photo, data, err := s.Photos.Load(ctx, analysis.UserID, analysis.PhotoID)
	if err != nil {
		return vision.Result{}, false, fmt.Errorf("%w: load photo %s: %w", errStorage, analysis.PhotoID, err)
	}

	analyzer := s.Analyzer
	if analyzer == nil {
		analyzer = vision.Unavailable{}
	}

	key := cacheKey(photo.Checksum, analyzer.Name())
	if s.Cache != nil && photo.Checksum != "" {
		var hit vision.Result
		found, err := s.Cache.Get(ctx, key, &hit)
		if err != nil {
			telemetry.Warn("analysis.cache_get_failed", map[string]any{
				"analysis_id": analysis.ID,
				"error":       err.Error(),
			})
		} else if found && hit.Validate() == nil {
			return hit, true, nil
		}
	}

	result, err := analyzer.Analyze(ctx, vision.Image{Key: photo.StorageKey, MimeType: photo.MimeType, Data: data})
	if err != nil {
		return vision.Result{}, false, err
	}
	if err := result.Validate(); err != nil {
		return vision.Result{}, false, err
	}

	if s.Cache != nil && photo.Checksum != "" {
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		if err := s.Cache.Set(ctx, key, result, ttl); err != nil {
			telemetry.Warn("analysis.cache_set_failed", map[string]any{
				"analysis_id": analysis.ID,
				"error":       err.Error(),
			})
		}
	}
	return result, false, nil
}

func cacheKey(checksum, provider string) string {
	return "analysis:" + provider + ":" + checksum
}

func (s *Service) failAnalysis(ctx context.Context, analysis Analysis, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := s.now()
	if updateErr := s.Repo.Fail(context.WithoutCancel(ctx), analysis.ID, code, msg, completedAt); updateErr != nil {
		if errors.Is(updateErr, ErrInvalidTransition) {
			return
		}
		telemetry.Error("analysis.fail_update_failed", map[string]any{
			"analysis_id": analysis.ID,
			"error":       updateErr.Error(),
			"cause":       msg,
		})
		return
	}
	metrics.IncAnalysisFailed(code)
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &completedAt))
	}
	from := StatusProcessing
	if startedAt == nil {
		from = StatusQueued
	}
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           analysis.UserID,
		"photo_id":          analysis.PhotoID,
		"analysis_id":       analysis.ID,
		"status":            StatusFailed,
		"status_transition": from + "->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) string {
	switch {
	case err == nil:
		return ErrorCodeInternal
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeAnalyzerTimeout
	case errors.Is(err, context.Canceled):
		return ErrorCodeCancelled
	case errors.Is(err, vision.ErrInvalidOutput):
		return ErrorCodeAnalyzerOutputInvalid
	case errors.Is(err, vision.ErrAnalyzerUnavailable):
		return ErrorCodeAnalyzerUnavailable
	case errors.Is(err, errStorage), errors.Is(err, vision.ErrEmptyImage),
		errors.Is(err, object.ErrNotFound), errors.Is(err, photos.ErrNotFound):
		return ErrorCodeStorage
	default:
		return ErrorCodeInternal
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}
