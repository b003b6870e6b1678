package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"makeup-backend/internal/vision"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, photo_id, user_id, provider, status, result, error_code, error_message,
       last_known_skin_tone, last_known_undertone, started_at, completed_at, created_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, photo_id, user_id, provider, status, last_known_skin_tone, last_known_undertone, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.PhotoID,
		analysis.UserID,
		analysis.Provider,
		analysis.Status,
		analysis.LastKnownSkinTone,
		analysis.LastKnownUndertone,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1
LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

// ListByUser lists analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) MarkProcessing(ctx context.Context, analysisID string, startedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = 'processing',
    started_at = $1
WHERE id = $2 AND status IN ('queued', 'processing')`
	return r.guardedUpdate(ctx, analysisID, query, startedAt, analysisID)
}

func (r *PGRepo) Complete(ctx context.Context, analysisID string, result vision.Result, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = 'completed',
    result = $1::jsonb,
    completed_at = $2
WHERE id = $3 AND status = 'processing'`
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.guardedUpdate(ctx, analysisID, query, string(payload), completedAt, analysisID)
}

func (r *PGRepo) Fail(ctx context.Context, analysisID, code, message string, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = 'failed',
    error_code = $1,
    error_message = $2,
    completed_at = $3
WHERE id = $4 AND status IN ('queued', 'processing')`
	return r.guardedUpdate(ctx, analysisID, query, code, message, completedAt, analysisID)
}

func (r *PGRepo) guardedUpdate(ctx context.Context, analysisID, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM analyses WHERE id = $1)`, analysisID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidTransition
}

// ClaimGuest moves every analysis owned by guestUserID to userID.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE analyses SET user_id = $1 WHERE user_id = $2`, userID, guestUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var result sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var startedAt sql.NullTime
	var completedAt sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.PhotoID,
		&a.UserID,
		&a.Provider,
		&a.Status,
		&result,
		&errorCode,
		&errorMessage,
		&a.LastKnownSkinTone,
		&a.LastKnownUndertone,
		&startedAt,
		&completedAt,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if result.Valid && result.String != "" {
		var parsed vision.Result
		if err := json.Unmarshal([]byte(result.String), &parsed); err != nil {
			return Analysis{}, err
		}
		a.Result = &parsed
	}
	a.ErrorCode = errorCode.String
	a.ErrorMessage = errorMessage.String
	if startedAt.Valid {
		a.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
