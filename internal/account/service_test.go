package account

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"makeup-backend/internal/analyses"
	"makeup-backend/internal/photos"
)

func TestClaimGuestUsesTransactionOnPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE photos SET user_id = $1 WHERE user_id = $2")).
		WithArgs("user-1", "guest:g").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE analyses SET user_id = $1 WHERE user_id = $2")).
		WithArgs("user-1", "guest:g").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	svc := NewService(&photos.PGRepo{DB: db}, &analyses.PGRepo{DB: db})
	result, err := svc.ClaimGuest(context.Background(), "guest:g", "user-1")
	if err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}
	if result.MigratedPhotos != 2 || result.MigratedAnalyses != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestClaimGuestRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE photos")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	svc := NewService(&photos.PGRepo{DB: db}, &analyses.PGRepo{DB: db})
	if _, err := svc.ClaimGuest(context.Background(), "guest:g", "user-1"); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestClaimGuestRequiresIDs(t *testing.T) {
	svc := NewService(photos.NewMemoryRepo(), analyses.NewMemoryRepo())
	if _, err := svc.ClaimGuest(context.Background(), "", "user-1"); err == nil {
		t.Fatalf("expected error for empty guest id")
	}
}
