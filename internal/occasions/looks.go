package occasions

import "makeup-backend/internal/complexion"

const (
	defaultSkinTone  = "Medium"
	defaultUndertone = "Neutral"
)

// BuildLooks annotates every occasion card with the model profile for the
// given attributes. An empty skin tone or undertone defaults to Medium/Neutral.
func BuildLooks(in Attributes) []Look {
	skinTone, undertone := withDefaults(in)
	cards := Catalog()
	looks := make([]Look, 0, len(cards))
	for _, card := range cards {
		looks = append(looks, Look{
			Recommendation: card,
			Model:          complexion.ForOccasion(skinTone, undertone, card.Name),
		})
	}
	return looks
}

// Model returns the base model profile for the attributes, with the same
// defaults as BuildLooks.
func Model(in Attributes) complexion.Profile {
	skinTone, undertone := withDefaults(in)
	return complexion.Resolve(skinTone, undertone)
}

// withDefaults only fills empty values. Whitespace is left for the resolver,
// which sends it to the medium bucket like any other unknown tone.
func withDefaults(in Attributes) (string, string) {
	skinTone, undertone := in.SkinTone, in.Undertone
	if skinTone == "" {
		skinTone = defaultSkinTone
	}
	if undertone == "" {
		undertone = defaultUndertone
	}
	return skinTone, undertone
}
