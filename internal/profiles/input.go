// Package profiles collects a user's manually entered facial attributes and
// turns them into a recommendation payload. Nothing is stored.
package profiles

import (
	"errors"
	"strings"

	"makeup-backend/internal/occasions"
)

var ErrMissingField = errors.New("missing required field")

// Input is the manual entry form.
type Input struct {
	SkinTone  string `json:"skinTone"`
	Undertone string `json:"undertone"`
	EyeColor  string `json:"eyeColor"`
	FaceShape string `json:"faceShape"`
}

// FieldError names one missing form field.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError lists every missing field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "missing required field: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrMissingField }

// Normalize trims every field.
func (in Input) Normalize() Input {
	return Input{
		SkinTone:  strings.TrimSpace(in.SkinTone),
		Undertone: strings.TrimSpace(in.Undertone),
		EyeColor:  strings.TrimSpace(in.EyeColor),
		FaceShape: strings.TrimSpace(in.FaceShape),
	}
}

// Validate requires skin tone, undertone and eye color. Values are free text
// and are not checked against a vocabulary.
func (in Input) Validate() error {
	n := in.Normalize()
	var missing []FieldError
	if n.SkinTone == "" {
		missing = append(missing, FieldError{Field: "skinTone", Issue: "required"})
	}
	if n.Undertone == "" {
		missing = append(missing, FieldError{Field: "undertone", Issue: "required"})
	}
	if n.EyeColor == "" {
		missing = append(missing, FieldError{Field: "eyeColor", Issue: "required"})
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Attributes converts the form into renderer input.
func (in Input) Attributes() occasions.Attributes {
	n := in.Normalize()
	return occasions.Attributes{
		SkinTone:  n.SkinTone,
		Undertone: n.Undertone,
		EyeColor:  n.EyeColor,
		FaceShape: n.FaceShape,
	}
}
