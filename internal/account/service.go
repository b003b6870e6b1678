// Package account moves data a caller created as a guest onto their
// signed-in identity.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"makeup-backend/internal/analyses"
	"makeup-backend/internal/photos"
	"makeup-backend/internal/shared/telemetry"
)

// ErrClaimUnsupported is returned when a repo cannot reassign ownership.
var ErrClaimUnsupported = errors.New("repo does not support claim")

type Service struct {
	PhotoRepo    photos.Repo
	AnalysisRepo analyses.Repo
}

type ClaimResult struct {
	MigratedPhotos   int `json:"migratedPhotos"`
	MigratedAnalyses int `json:"migratedAnalyses"`
}

func NewService(photoRepo photos.Repo, analysisRepo analyses.Repo) *Service {
	return &Service{PhotoRepo: photoRepo, AnalysisRepo: analysisRepo}
}

type guestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error)
}

// ClaimGuest reassigns every photo and analysis owned by guestUserID to
// authedUserID. On Postgres both tables move in one transaction.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	var (
		result ClaimResult
		err    error
	)
	photoPG, photoOK := s.PhotoRepo.(*photos.PGRepo)
	_, analysisOK := s.AnalysisRepo.(*analyses.PGRepo)
	if photoOK && analysisOK && photoPG.DB != nil {
		result, err = claimWithTx(ctx, photoPG.DB, guestUserID, authedUserID)
	} else {
		result, err = s.claimEach(ctx, guestUserID, authedUserID)
	}
	if err != nil {
		return ClaimResult{}, err
	}

	telemetry.Info("account.guest_claimed", map[string]any{
		"user_id":           authedUserID,
		"guest_user_id":     guestUserID,
		"migrated_photos":   result.MigratedPhotos,
		"migrated_analyses": result.MigratedAnalyses,
	})
	return result, nil
}

func (s *Service) claimEach(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	photoClaimer, ok := s.PhotoRepo.(guestClaimer)
	if !ok {
		return ClaimResult{}, fmt.Errorf("photos: %w", ErrClaimUnsupported)
	}
	analysisClaimer, ok := s.AnalysisRepo.(guestClaimer)
	if !ok {
		return ClaimResult{}, fmt.Errorf("analyses: %w", ErrClaimUnsupported)
	}

	photoCount, err := photoClaimer.ClaimGuest(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	analysisCount, err := analysisClaimer.ClaimGuest(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedPhotos: photoCount, MigratedAnalyses: analysisCount}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	photoRes, err := tx.ExecContext(ctx, `UPDATE photos SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	photoCount, _ := photoRes.RowsAffected()

	analysisRes, err := tx.ExecContext(ctx, `UPDATE analyses SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	analysisCount, _ := analysisRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedPhotos: int(photoCount), MigratedAnalyses: int(analysisCount)}, nil
}
