package occasions

import "makeup-backend/internal/complexion"

// Recommendation is one static occasion card.
type Recommendation struct {
	Name            string   `json:"name" yaml:"name"`
	ShortTitle      string   `json:"shortTitle" yaml:"shortTitle"`
	FoundationShade string   `json:"foundationShade" yaml:"foundationShade"`
	LipShade        string   `json:"lipShade" yaml:"lipShade"`
	EyePalette      string   `json:"eyePalette" yaml:"eyePalette"`
	BlushShade      string   `json:"blushShade" yaml:"blushShade"`
	BrushesNeeded   []string `json:"brushesNeeded" yaml:"brushesNeeded"`
	LookSummary     string   `json:"lookSummary" yaml:"lookSummary"`
	ProductURLs     []string `json:"productUrls" yaml:"productUrls"`
	Icon            string   `json:"icon" yaml:"icon"`
	Color           string   `json:"color" yaml:"color"`
}

// Attributes are the user's stated or inferred facial attributes.
type Attributes struct {
	SkinTone  string `json:"skinTone" yaml:"skinTone"`
	Undertone string `json:"undertone" yaml:"undertone"`
	EyeColor  string `json:"eyeColor,omitempty" yaml:"eyeColor,omitempty"`
	FaceShape string `json:"faceShape,omitempty" yaml:"faceShape,omitempty"`
}

// Look pairs a recommendation with the model image for the user's complexion.
type Look struct {
	Recommendation `yaml:",inline"`

	Model complexion.Profile `json:"model" yaml:"model"`
}
