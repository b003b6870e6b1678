package analyses

import (
	"time"

	"makeup-backend/internal/complexion"
	"makeup-backend/internal/occasions"
	"makeup-backend/internal/shared/metrics"
	"makeup-backend/internal/vision"
)

// StatusUnavailable is how a failed analysis is shown to clients.
const StatusUnavailable = "unavailable"

// View is the API representation of an analysis. A failed job is reported
// as unavailable and carries the last manually entered attributes instead
// of an error.
type View struct {
	AnalysisID  string              `json:"analysisId"`
	PhotoID     string              `json:"photoId"`
	Status      string              `json:"status"`
	Provider    string              `json:"provider,omitempty"`
	SkinTone    string              `json:"skinTone,omitempty"`
	Undertone   string              `json:"undertone,omitempty"`
	Result      *vision.Result      `json:"result,omitempty"`
	Model       *complexion.Profile `json:"model,omitempty"`
	Looks       []occasions.Look    `json:"looks,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	StartedAt   *time.Time          `json:"startedAt,omitempty"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
}

// Summary is the list representation of an analysis.
type Summary struct {
	AnalysisID string    `json:"analysisId"`
	PhotoID    string    `json:"photoId"`
	Status     string    `json:"status"`
	SkinTone   string    `json:"skinTone,omitempty"`
	Undertone  string    `json:"undertone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func publicStatus(status string) string {
	if status == StatusFailed {
		return StatusUnavailable
	}
	return status
}

func toView(a Analysis) View {
	v := View{
		AnalysisID:  a.ID,
		PhotoID:     a.PhotoID,
		Status:      a.Status,
		Provider:    a.Provider,
		CreatedAt:   a.CreatedAt,
		StartedAt:   a.StartedAt,
		CompletedAt: a.CompletedAt,
	}

	switch {
	case a.Status == StatusFailed:
		v.Status = StatusUnavailable
		v.SkinTone = a.LastKnownSkinTone
		v.Undertone = a.LastKnownUndertone
		v.Reason = a.ErrorCode
	case a.Status == StatusCompleted && a.Result != nil:
		result := *a.Result
		v.Result = &result
		v.SkinTone = result.SkinTone
		v.Undertone = result.Undertone

		model, fallback := complexion.ResolveWithFallback(result.SkinTone, result.Undertone)
		if fallback != complexion.FallbackNone {
			metrics.IncResolverFallback(string(fallback))
		}
		v.Model = &model
		v.Looks = occasions.BuildLooks(occasions.Attributes{
			SkinTone:  result.SkinTone,
			Undertone: result.Undertone,
			EyeColor:  result.EyeColor,
			FaceShape: result.FaceShape,
		})
	}
	return v
}

func toSummary(a Analysis) Summary {
	s := Summary{
		AnalysisID: a.ID,
		PhotoID:    a.PhotoID,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
	}
	switch {
	case a.Status == StatusFailed:
		s.Status = StatusUnavailable
		s.SkinTone = a.LastKnownSkinTone
		s.Undertone = a.LastKnownUndertone
	case a.Status == StatusCompleted && a.Result != nil:
		s.SkinTone = a.Result.SkinTone
		s.Undertone = a.Result.Undertone
	}
	return s
}

type startRequest struct {
	SkinTone  string `json:"skinTone"`
	Undertone string `json:"undertone"`
}
