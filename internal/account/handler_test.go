package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"makeup-backend/internal/analyses"
	"makeup-backend/internal/photos"
)

func newRouter(t *testing.T, userID string, guest bool) (*gin.Engine, *photos.MemoryRepo, *analyses.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	photoRepo := photos.NewMemoryRepo()
	analysisRepo := analyses.NewMemoryRepo()
	handler := NewHandler(NewService(photoRepo, analysisRepo))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("isGuest", guest)
		c.Next()
	})
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, photoRepo, analysisRepo
}

func claim(router http.Handler, guestID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	if guestID != "" {
		req.Header.Set("X-Guest-Id", guestID)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestClaimGuestMigratesData(t *testing.T) {
	router, photoRepo, analysisRepo := newRouter(t, "user-1", false)

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID
	now := time.Now().UTC()

	photo := photos.Photo{
		ID:        "photo-1",
		UserID:    guestUserID,
		FileName:  "selfie.jpg",
		MimeType:  "image/jpeg",
		SizeBytes: 123,
		CreatedAt: now,
	}
	if err := photoRepo.Create(context.Background(), photo); err != nil {
		t.Fatalf("create photo: %v", err)
	}
	analysis := analyses.Analysis{
		ID:        "analysis-1",
		PhotoID:   photo.ID,
		UserID:    guestUserID,
		Status:    analyses.StatusCompleted,
		CreatedAt: now,
	}
	if err := analysisRepo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("create analysis: %v", err)
	}

	resp := claim(router, guestID)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var result ClaimResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.MigratedPhotos != 1 || result.MigratedAnalyses != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, err := photoRepo.GetByID(context.Background(), "user-1", photo.ID)
	if err != nil {
		t.Fatalf("get migrated photo: %v", err)
	}
	if got.UserID != "user-1" {
		t.Fatalf("expected owner user-1, got %q", got.UserID)
	}
	if _, err := photoRepo.GetByID(context.Background(), guestUserID, photo.ID); err == nil {
		t.Fatalf("guest should no longer own the photo")
	}

	list, err := analysisRepo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list analyses: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 migrated analysis, got %d", len(list))
	}
}

func TestClaimGuestIdempotentAndIsolated(t *testing.T) {
	router, photoRepo, _ := newRouter(t, "user-1", false)

	guestID := "22222222-2222-2222-2222-222222222222"
	photo := photos.Photo{
		ID:        "photo-2",
		UserID:    "guest:" + guestID,
		FileName:  "selfie.png",
		MimeType:  "image/png",
		SizeBytes: 10,
		CreatedAt: time.Now().UTC(),
	}
	if err := photoRepo.Create(context.Background(), photo); err != nil {
		t.Fatalf("create photo: %v", err)
	}

	if resp := claim(router, guestID); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	resp := claim(router, guestID)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 on repeat call, got %d", resp.Code)
	}
	var result ClaimResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.MigratedPhotos != 0 {
		t.Fatalf("repeat claim migrated %d photos", result.MigratedPhotos)
	}

	others, err := photoRepo.ListByUser(context.Background(), "user-2", 10, 0)
	if err != nil {
		t.Fatalf("list photos: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("expected no photos for other user, got %d", len(others))
	}
}

func TestClaimGuestRejectsGuests(t *testing.T) {
	router, _, _ := newRouter(t, "guest:abc", true)
	if resp := claim(router, "33333333-3333-3333-3333-333333333333"); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestClaimGuestValidatesHeader(t *testing.T) {
	router, _, _ := newRouter(t, "user-1", false)
	if resp := claim(router, ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing header, got %d", resp.Code)
	}
	if resp := claim(router, "not-a-uuid"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid header, got %d", resp.Code)
	}
}

func TestClaimGuestEchoesUser(t *testing.T) {
	router, _, _ := newRouter(t, "user-9", false)
	resp := claim(router, "44444444-4444-4444-4444-444444444444")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["userId"] != "user-9" {
		t.Fatalf("expected userId user-9, got %v", body["userId"])
	}
	if body["migratedPhotos"] != float64(0) {
		t.Fatalf("expected migratedPhotos 0, got %v", body["migratedPhotos"])
	}
}
