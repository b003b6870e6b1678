package analyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"makeup-backend/internal/vision"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Analysis)}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[analysis.ID] = analysis
	return nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return cloneAnalysis(analysis), nil
}

// ListByUser returns analyses for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	var owned []Analysis
	for _, a := range r.byID {
		if a.UserID == userID {
			owned = append(owned, cloneAnalysis(a))
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return []Analysis{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (r *MemoryRepo) MarkProcessing(ctx context.Context, analysisID string, startedAt time.Time) error {
	return r.transition(ctx, analysisID, []string{StatusQueued, StatusProcessing}, func(a *Analysis) {
		a.Status = StatusProcessing
		a.StartedAt = &startedAt
	})
}

func (r *MemoryRepo) Complete(ctx context.Context, analysisID string, result vision.Result, completedAt time.Time) error {
	return r.transition(ctx, analysisID, []string{StatusProcessing}, func(a *Analysis) {
		a.Status = StatusCompleted
		a.Result = &result
		a.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) Fail(ctx context.Context, analysisID, code, message string, completedAt time.Time) error {
	return r.transition(ctx, analysisID, []string{StatusQueued, StatusProcessing}, func(a *Analysis) {
		a.Status = StatusFailed
		a.ErrorCode = code
		a.ErrorMessage = message
		a.CompletedAt = &completedAt
	})
}

// ClaimGuest moves every analysis owned by guestUserID to userID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, a := range r.byID {
		if a.UserID == guestUserID {
			a.UserID = userID
			r.byID[id] = a
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) transition(ctx context.Context, analysisID string, from []string, apply func(*Analysis)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	allowed := false
	for _, status := range from {
		if analysis.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidTransition
	}
	apply(&analysis)
	r.byID[analysisID] = analysis
	return nil
}

func cloneAnalysis(a Analysis) Analysis {
	if a.Result != nil {
		result := *a.Result
		a.Result = &result
	}
	return a
}

var _ Repo = (*MemoryRepo)(nil)
