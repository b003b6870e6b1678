package photos

import "time"

// Photo is an uploaded selfie owned by a user.
type Photo struct {
	ID         string
	UserID     string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	Checksum   string
	CreatedAt  time.Time
}
