package analyses

import (
	"context"
	"time"

	"makeup-backend/internal/vision"
)

// Repo defines persistence operations for analyses. The status updates are
// guarded: they return ErrInvalidTransition when the job is not in a state
// the transition may start from.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
	// MarkProcessing moves a queued (or redelivered processing) job to processing.
	MarkProcessing(ctx context.Context, analysisID string, startedAt time.Time) error
	// Complete moves a processing job to completed with its result.
	Complete(ctx context.Context, analysisID string, result vision.Result, completedAt time.Time) error
	// Fail moves a queued or processing job to failed.
	Fail(ctx context.Context, analysisID, code, message string, completedAt time.Time) error
}
