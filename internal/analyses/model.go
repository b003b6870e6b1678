package analyses

import (
	"time"

	"makeup-backend/internal/vision"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis is one asynchronous selfie analysis job.
type Analysis struct {
	ID                 string         `json:"id"`
	PhotoID            string         `json:"photoId"`
	UserID             string         `json:"userId"`
	Provider           string         `json:"provider"`
	Status             string         `json:"status"`
	Result             *vision.Result `json:"result,omitempty"`
	ErrorCode          string         `json:"errorCode,omitempty"`
	ErrorMessage       string         `json:"errorMessage,omitempty"`
	LastKnownSkinTone  string         `json:"lastKnownSkinTone,omitempty"`
	LastKnownUndertone string         `json:"lastKnownUndertone,omitempty"`
	StartedAt          *time.Time     `json:"startedAt,omitempty"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// Terminal reports whether the job will not change status again.
func (a Analysis) Terminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusFailed
}

// Hint carries the attributes the user last entered by hand. A failed
// analysis falls back to them.
type Hint struct {
	SkinTone  string `json:"skinTone"`
	Undertone string `json:"undertone"`
}
