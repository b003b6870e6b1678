package photos

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const photoColumns = `id, user_id, file_name, mime_type, size_bytes, storage_key, checksum, created_at`

func (r *PGRepo) Create(ctx context.Context, p Photo) error {
	const query = `
INSERT INTO photos (` + photoColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.FileName,
		p.MimeType,
		p.SizeBytes,
		p.StorageKey,
		p.Checksum,
		p.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, photoID string) (Photo, error) {
	const query = `
SELECT ` + photoColumns + `
FROM photos
WHERE user_id = $1 AND id = $2
LIMIT 1`
	p, err := scanPhoto(r.DB.QueryRowContext(ctx, query, userID, photoID))
	if errors.Is(err, sql.ErrNoRows) {
		return Photo{}, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Photo, error) {
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
SELECT ` + photoColumns + `
FROM photos
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ClaimGuest moves every photo owned by guestUserID to userID.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE photos SET user_id = $1 WHERE user_id = $2`, userID, guestUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (Photo, error) {
	var p Photo
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FileName,
		&p.MimeType,
		&p.SizeBytes,
		&p.StorageKey,
		&p.Checksum,
		&p.CreatedAt,
	)
	return p, err
}

var _ Repo = (*PGRepo)(nil)
