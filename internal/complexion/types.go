package complexion

import "strings"

// SkinTone is a canonical skin-tone category.
type SkinTone string

const (
	ToneFair   SkinTone = "Fair"
	ToneLight  SkinTone = "Light"
	ToneMedium SkinTone = "Medium"
	ToneTan    SkinTone = "Tan"
	ToneDeep   SkinTone = "Deep"
	ToneDark   SkinTone = "Dark"
)

// Undertone is a canonical undertone category.
type Undertone string

const (
	UndertoneCool    Undertone = "Cool"
	UndertoneWarm    Undertone = "Warm"
	UndertoneNeutral Undertone = "Neutral"
)

// SkinTones lists the supported skin tones in table order.
func SkinTones() []SkinTone {
	return []SkinTone{ToneFair, ToneLight, ToneMedium, ToneTan, ToneDeep, ToneDark}
}

// Undertones lists the supported undertones in bucket order.
func Undertones() []Undertone {
	return []Undertone{UndertoneCool, UndertoneWarm, UndertoneNeutral}
}

// ParseSkinTone maps free text to a category. Unknown input maps to Medium.
func ParseSkinTone(raw string) SkinTone {
	key := normalize(raw)
	for _, tone := range SkinTones() {
		if strings.ToLower(string(tone)) == key {
			return tone
		}
	}
	return ToneMedium
}

// ParseUndertone maps free text to a category. ok is false when nothing matches;
// there is no default undertone.
func ParseUndertone(raw string) (Undertone, bool) {
	key := normalize(raw)
	for _, u := range Undertones() {
		if strings.ToLower(string(u)) == key {
			return u, true
		}
	}
	return "", false
}

// Profile is a representative model image for a complexion.
type Profile struct {
	ImageURL    string    `json:"url" yaml:"url"`
	SkinTone    SkinTone  `json:"skinTone" yaml:"skinTone"`
	Undertone   Undertone `json:"undertone" yaml:"undertone"`
	Description string    `json:"description" yaml:"description"`
}

// Fallback reports which default, if any, Resolve applied.
type Fallback string

const (
	FallbackNone      Fallback = ""
	FallbackBucket    Fallback = "bucket"
	FallbackUndertone Fallback = "undertone"
)

// normalize lower-cases input for matching. Whitespace is not trimmed:
// matching is exact apart from case.
func normalize(raw string) string {
	return strings.ToLower(raw)
}
