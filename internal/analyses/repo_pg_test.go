package analyses

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analysisRowColumns = []string{
	"id", "photo_id", "user_id", "provider", "status", "result", "error_code", "error_message",
	"last_known_skin_tone", "last_known_undertone", "started_at", "completed_at", "created_at",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := Analysis{
		ID:                 "a-1",
		PhotoID:            "p-1",
		UserID:             testUser,
		Provider:           "mock",
		Status:             StatusQueued,
		LastKnownSkinTone:  "Fair",
		LastKnownUndertone: "Cool",
		CreatedAt:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(a.ID, a.PhotoID, a.UserID, a.Provider, a.Status, a.LastKnownSkinTone, a.LastKnownUndertone, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByIDDecodesResult(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	completed := created.Add(3 * time.Second)

	rows := sqlmock.NewRows(analysisRowColumns).AddRow(
		"a-1", "p-1", testUser, "mock", StatusCompleted,
		`{"skinTone":"Medium","undertone":"Warm","eyeColor":"Brown","faceShape":"Heart","confidence":0.88}`,
		nil, nil, "", "", created, completed, created,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM analyses")).WithArgs("a-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "a-1")
	require.NoError(t, err)
	require.NotNil(t, got.Result)
	assert.Equal(t, warmResult, *got.Result)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, completed, *got.CompletedAt)
	assert.Empty(t, got.ErrorCode)
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM analyses")).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGRepoCompleteWritesResult(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 3, 1, 0, 0, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'completed'")).
		WithArgs(sqlmock.AnyArg(), at, "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Complete(context.Background(), "a-1", warmResult, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoFailGuardedTransition(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 3, 1, 0, 0, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'failed'")).
		WithArgs(ErrorCodeCancelled, "cancelled", at, "a-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.Fail(context.Background(), "a-1", ErrorCodeCancelled, "cancelled", at)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoMarkProcessingNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'processing'")).
		WithArgs(at, "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.MarkProcessing(context.Background(), "nope", at)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGRepoListByUserClampsLimit(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(analysisRowColumns).
		AddRow("a-2", "p-1", testUser, "mock", StatusQueued, nil, nil, nil, "Fair", "Cool", nil, nil, created.Add(time.Minute)).
		AddRow("a-1", "p-1", testUser, "mock", StatusFailed, nil, ErrorCodeAnalyzerTimeout, "deadline", "", "", created, created, created)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(testUser, 100, 0).
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), testUser, 500, -3)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Fair", list[0].LastKnownSkinTone)
	assert.Nil(t, list[0].Result)
	assert.Equal(t, ErrorCodeAnalyzerTimeout, list[1].ErrorCode)
}

func TestMemoryRepoGuardsTransitions(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, Analysis{ID: "a", UserID: testUser, Status: StatusQueued, CreatedAt: now}))

	assert.ErrorIs(t, repo.Complete(ctx, "a", warmResult, now), ErrInvalidTransition)
	require.NoError(t, repo.MarkProcessing(ctx, "a", now))
	require.NoError(t, repo.Complete(ctx, "a", warmResult, now))
	assert.ErrorIs(t, repo.Fail(ctx, "a", ErrorCodeCancelled, "x", now), ErrInvalidTransition)
	assert.ErrorIs(t, repo.MarkProcessing(ctx, "missing", now), ErrNotFound)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	got.Result.SkinTone = "mutated"
	again, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, warmResult, *again.Result)
}

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Create(ctx, Analysis{ID: id, UserID: testUser, Status: StatusQueued, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}
	require.NoError(t, repo.Create(ctx, Analysis{ID: "other", UserID: "guest:x", CreatedAt: base}))

	list, err := repo.ListByUser(ctx, testUser, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)

	tail, err := repo.ListByUser(ctx, testUser, 2, 2)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "old", tail[0].ID)
}
