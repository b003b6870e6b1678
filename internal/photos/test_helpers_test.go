package photos

import (
	"bytes"
	"testing"
	"time"

	"makeup-backend/internal/shared/storage/object/local"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

// jpegBytes returns a payload the content sniffer reports as image/jpeg.
func jpegBytes(n int) []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x42}, n)...)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Store: local.New(t.TempDir()),
		Repo:  NewMemoryRepo(),
		Now:   func() time.Time { return fixedNow },
	}
}
