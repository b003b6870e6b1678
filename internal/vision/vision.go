// Package vision extracts makeup-relevant facial attributes from a selfie.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAnalyzerUnavailable is returned when no analyzer backend is configured.
	ErrAnalyzerUnavailable = errors.New("photo analyzer unavailable")
	// ErrInvalidOutput is returned when the analyzer reply cannot be used.
	ErrInvalidOutput = errors.New("photo analyzer returned invalid output")
	// ErrEmptyImage is returned for an image with no bytes.
	ErrEmptyImage = errors.New("image is empty")
)

// Image is a selfie handed to an Analyzer.
type Image struct {
	Key      string
	MimeType string
	Data     []byte
}

// Result holds the attributes read from a selfie. Values use the same free
// text vocabulary as manual entry.
type Result struct {
	SkinTone   string  `json:"skinTone" yaml:"skinTone"`
	Undertone  string  `json:"undertone" yaml:"undertone"`
	EyeColor   string  `json:"eyeColor" yaml:"eyeColor"`
	FaceShape  string  `json:"faceShape" yaml:"faceShape"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Validate checks that the attributes needed for a recommendation are present.
func (r Result) Validate() error {
	var missing []string
	if strings.TrimSpace(r.SkinTone) == "" {
		missing = append(missing, "skinTone")
	}
	if strings.TrimSpace(r.Undertone) == "" {
		missing = append(missing, "undertone")
	}
	if strings.TrimSpace(r.EyeColor) == "" {
		missing = append(missing, "eyeColor")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidOutput, strings.Join(missing, ", "))
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", ErrInvalidOutput, r.Confidence)
	}
	return nil
}

// Analyzer reads facial attributes from an image. Implementations must
// return promptly with ctx.Err() once ctx is done.
type Analyzer interface {
	Analyze(ctx context.Context, img Image) (Result, error)
	Name() string
}

// Unavailable is an Analyzer that always fails with ErrAnalyzerUnavailable.
type Unavailable struct{}

func (Unavailable) Analyze(ctx context.Context, img Image) (Result, error) {
	return Result{}, ErrAnalyzerUnavailable
}

func (Unavailable) Name() string { return "unavailable" }
