// Package complexion resolves free-text skin tone and undertone to a
// representative model profile from a compiled-in reference table.
//
// Every function here is total: unmatched input resolves through a fixed
// fallback rather than an error.
package complexion

// Resolve returns the profile for skinTone and undertone. Matching is exact
// and case-insensitive. An unknown skin tone selects the medium bucket; an
// unknown undertone selects the first entry of the bucket.
func Resolve(skinTone, undertone string) Profile {
	p, _ := ResolveWithFallback(skinTone, undertone)
	return p
}

// ResolveWithFallback is Resolve plus the fallback that was applied. When
// both the bucket and the undertone miss, FallbackBucket is reported.
func ResolveWithFallback(skinTone, undertone string) (Profile, Fallback) {
	fallback := FallbackNone
	bucket, ok := buckets[normalize(skinTone)]
	if !ok {
		bucket = buckets[defaultBucket]
		fallback = FallbackBucket
	}

	want := normalize(undertone)
	for _, p := range bucket {
		if normalize(string(p.Undertone)) == want {
			return p, fallback
		}
	}
	if fallback == FallbackNone {
		fallback = FallbackUndertone
	}
	return bucket[0], fallback
}

// Variations returns up to count profiles from the variations pool whose
// skin tone matches. When fewer than count match, the first count entries
// of the whole pool are returned instead, regardless of tone.
func Variations(skinTone string, count int) []Profile {
	out, _ := VariationsWithFallback(skinTone, count)
	return out
}

// VariationsWithFallback is Variations plus whether the pool-head fallback
// was used.
func VariationsWithFallback(skinTone string, count int) ([]Profile, bool) {
	if count <= 0 {
		return []Profile{}, false
	}
	want := normalize(skinTone)
	matching := make([]Profile, 0, len(variationPool))
	for _, p := range variationPool {
		if normalize(string(p.SkinTone)) == want {
			matching = append(matching, p)
		}
	}
	if len(matching) >= count {
		return matching[:count], false
	}

	n := count
	if n > len(variationPool) {
		n = len(variationPool)
	}
	out := make([]Profile, n)
	copy(out, variationPool[:n])
	return out, true
}

// ForOccasion resolves the profile and tags its description with the
// occasion, e.g. "Fair skin with cool undertones - Party look".
func ForOccasion(skinTone, undertone, occasion string) Profile {
	p := Resolve(skinTone, undertone)
	p.Description = p.Description + " - " + occasion + " look"
	return p
}
