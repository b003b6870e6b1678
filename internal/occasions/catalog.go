package occasions

import "strings"

const (
	Work    = "Work"
	Date    = "Date"
	Party   = "Party"
	Wedding = "Wedding"
	Evening = "Evening"
)

const (
	defaultIcon  = "sparkles"
	defaultColor = "#6200EE"
	foundation   = "Fenty Beauty Pro Filt'r - 240"
)

var catalog = []Recommendation{
	{
		Name:            Work,
		ShortTitle:      "Natural Day Glow",
		FoundationShade: foundation,
		LipShade:        "MAC Velvet Teddy",
		EyePalette:      "Urban Decay Naked Basics - #D4A574, #8B7355",
		BlushShade:      "NARS Orgasm",
		BrushesNeeded:   []string{"Foundation brush", "Blending brush", "Lip brush"},
		LookSummary:     "A fresh, natural look perfect for the office with subtle definition and a healthy glow.",
		ProductURLs: []string{
			"https://example.com/fenty-foundation",
			"https://example.com/mac-lipstick",
			"https://example.com/urban-decay-palette",
		},
		Icon:  "briefcase.fill",
		Color: "#6200EE",
	},
	{
		Name:            Date,
		ShortTitle:      "Romantic Evening",
		FoundationShade: foundation,
		LipShade:        "Charlotte Tilbury Pillow Talk",
		EyePalette:      "Huda Beauty Rose Gold - #C9A0A0, #8B4C4C",
		BlushShade:      "Benefit Dandelion",
		BrushesNeeded:   []string{"Foundation brush", "Eyeshadow brush", "Contour brush", "Lip brush"},
		LookSummary:     "Soft, romantic look with warm tones and a subtle shimmer for a date night.",
		ProductURLs: []string{
			"https://example.com/fenty-foundation",
			"https://example.com/charlotte-tilbury",
			"https://example.com/huda-beauty",
		},
		Icon:  "heart.fill",
		Color: "#E91E63",
	},
	{
		Name:            Party,
		ShortTitle:      "Glamorous Night Out",
		FoundationShade: foundation,
		LipShade:        "Anastasia Beverly Hills - Ruby",
		EyePalette:      "Pat McGrath Mothership - #4A148C, #E1BEE7",
		BlushShade:      "Too Faced Papa Don't Peach",
		BrushesNeeded:   []string{"Foundation brush", "Blending brush", "Precision liner", "Highlight brush"},
		LookSummary:     "Bold, dramatic look with statement eyes and lips for a night of dancing.",
		ProductURLs: []string{
			"https://example.com/fenty-foundation",
			"https://example.com/anastasia-lipstick",
			"https://example.com/pat-mcgrath",
		},
		Icon:  "music.note",
		Color: "#FF6F00",
	},
	{
		Name:            Wedding,
		ShortTitle:      "Timeless Elegance",
		FoundationShade: foundation,
		LipShade:        "MAC Ruby Woo",
		EyePalette:      "Tom Ford Eye Color Quad - #D4AF37, #8B7355",
		BlushShade:      "Hourglass Mood Exposure",
		BrushesNeeded:   []string{"Foundation brush", "Powder brush", "Blending brush", "Lip brush", "Highlight brush"},
		LookSummary:     "Classic, elegant look that photographs beautifully and lasts all day.",
		ProductURLs: []string{
			"https://example.com/fenty-foundation",
			"https://example.com/mac-ruby-woo",
			"https://example.com/tom-ford",
		},
		Icon:  "gift.fill",
		Color: "#00BCD4",
	},
	{
		Name:            Evening,
		ShortTitle:      "Sophisticated Chic",
		FoundationShade: foundation,
		LipShade:        "YSL Rouge Pur Couture - 70",
		EyePalette:      "Natasha Denona Gold - #FFD700, #8B6914",
		BlushShade:      "Dior Rosy Glow",
		BrushesNeeded:   []string{"Foundation brush", "Contour brush", "Blending brush", "Lip brush"},
		LookSummary:     "Refined, sophisticated look with warm metallics for evening events.",
		ProductURLs: []string{
			"https://example.com/fenty-foundation",
			"https://example.com/ysl-lipstick",
			"https://example.com/natasha-denona",
		},
		Icon:  "moon.stars.fill",
		Color: "#9C27B0",
	},
}

// Catalog returns a copy of the five occasion cards in display order.
func Catalog() []Recommendation {
	out := make([]Recommendation, len(catalog))
	for i, rec := range catalog {
		out[i] = cloneRecommendation(rec)
	}
	return out
}

// Lookup finds an occasion by name, ignoring case.
func Lookup(name string) (Recommendation, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, rec := range catalog {
		if strings.ToLower(rec.Name) == key {
			return cloneRecommendation(rec), true
		}
	}
	return Recommendation{}, false
}

// Style returns the icon and accent color for an occasion name.
func Style(name string) (icon, color string) {
	if rec, ok := Lookup(name); ok {
		return rec.Icon, rec.Color
	}
	return defaultIcon, defaultColor
}

func cloneRecommendation(rec Recommendation) Recommendation {
	rec.BrushesNeeded = append([]string(nil), rec.BrushesNeeded...)
	rec.ProductURLs = append([]string(nil), rec.ProductURLs...)
	return rec
}
