package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"makeup-backend/internal/shared/storage/object"
	"makeup-backend/internal/shared/telemetry"
)

// MaxUploadBytes caps a selfie upload.
const MaxUploadBytes = 10 << 20

const presignTTL = 15 * time.Minute

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/heic": {},
	"image/heif": {},
}

// AllowedMimeType reports whether selfies of this content type are accepted.
func AllowedMimeType(mimeType string) bool {
	_, ok := allowedMimeTypes[strings.ToLower(strings.TrimSpace(mimeType))]
	return ok
}

// Service contains business logic for photos.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Upload validates the image type, stores the bytes and records the photo.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Photo, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(fileName) == "" {
		return Photo{}, ErrInvalidInput
	}

	mimeType, body, err := object.Sniff(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Photo{}, err
	}
	if !AllowedMimeType(mimeType) {
		return Photo{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	obj, err := s.Store.Save(ctx, userID, fileName, body)
	if err != nil {
		return Photo{}, fmt.Errorf("store photo: %w", err)
	}
	if obj.Size > MaxUploadBytes {
		s.discard(obj.Key)
		return Photo{}, ErrTooLarge
	}
	if obj.Size == 0 {
		s.discard(obj.Key)
		return Photo{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	return s.record(ctx, userID, fileName, obj)
}

// PresignUpload issues a direct-to-storage upload URL when the store supports it.
func (s *Service) PresignUpload(ctx context.Context, userID, fileName, contentType string) (url, key string, ttl time.Duration, err error) {
	presigner, ok := s.Store.(object.Presigner)
	if !ok {
		return "", "", 0, ErrPresignDisabled
	}
	if strings.TrimSpace(fileName) == "" {
		return "", "", 0, ErrInvalidInput
	}
	if !AllowedMimeType(contentType) {
		return "", "", 0, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	url, key, err = presigner.PresignPut(ctx, userID, fileName, contentType, presignTTL)
	if err != nil {
		return "", "", 0, err
	}
	return url, key, presignTTL, nil
}

// CreateFromUpload records a photo the client already uploaded with a
// presigned URL. The object is read back to verify type, size and checksum.
func (s *Service) CreateFromUpload(ctx context.Context, userID, storageKey, fileName string) (Photo, error) {
	if strings.TrimSpace(storageKey) == "" || strings.TrimSpace(fileName) == "" {
		return Photo{}, ErrInvalidInput
	}
	if !object.OwnsKey(userID, storageKey) {
		return Photo{}, fmt.Errorf("%w: storage key not owned by caller", ErrInvalidInput)
	}

	rc, err := s.Store.Open(ctx, storageKey)
	if errors.Is(err, object.ErrNotFound) {
		return Photo{}, ErrNotFound
	}
	if err != nil {
		return Photo{}, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	mimeType, body, err := object.Sniff(rc)
	if err != nil {
		return Photo{}, err
	}
	if !AllowedMimeType(mimeType) {
		return Photo{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	digest := object.NewDigestReader(io.LimitReader(body, MaxUploadBytes+1))
	if _, err := io.Copy(io.Discard, digest); err != nil {
		return Photo{}, fmt.Errorf("read upload: %w", err)
	}
	if digest.Size() > MaxUploadBytes {
		return Photo{}, ErrTooLarge
	}

	return s.record(ctx, userID, fileName, object.Object{
		Key:      storageKey,
		Size:     digest.Size(),
		MimeType: mimeType,
		Checksum: digest.Checksum(),
	})
}

func (s *Service) record(ctx context.Context, userID, fileName string, obj object.Object) (Photo, error) {
	p := Photo{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		MimeType:   obj.MimeType,
		SizeBytes:  obj.Size,
		StorageKey: obj.Key,
		Checksum:   obj.Checksum,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		s.discard(obj.Key)
		return Photo{}, fmt.Errorf("record photo: %w", err)
	}
	telemetry.Info("photo.uploaded", map[string]any{
		"photo_id":   p.ID,
		"user_id":    userID,
		"mime_type":  p.MimeType,
		"size_bytes": p.SizeBytes,
	})
	return p, nil
}

// discard removes an object that will not be recorded. Failures are logged only.
func (s *Service) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Store.Delete(ctx, key); err != nil {
		telemetry.Warn("photo.discard.failed", map[string]any{"storage_key": key, "error": err})
	}
}

// Get returns a photo owned by userID.
func (s *Service) Get(ctx context.Context, userID, photoID string) (Photo, error) {
	if strings.TrimSpace(photoID) == "" {
		return Photo{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, photoID)
}

// List returns the caller's photos, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Photo, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Load returns the photo metadata and its bytes.
func (s *Service) Load(ctx context.Context, userID, photoID string) (Photo, []byte, error) {
	p, err := s.Get(ctx, userID, photoID)
	if err != nil {
		return Photo{}, nil, err
	}
	rc, err := s.Store.Open(ctx, p.StorageKey)
	if err != nil {
		return Photo{}, nil, fmt.Errorf("open photo %s: %w", p.ID, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, MaxUploadBytes+1))
	if err != nil {
		return Photo{}, nil, fmt.Errorf("read photo %s: %w", p.ID, err)
	}
	return p, data, nil
}
