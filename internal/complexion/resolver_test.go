package complexion

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEchoesSupportedInputs(t *testing.T) {
	for _, tone := range SkinTones() {
		for _, undertone := range Undertones() {
			tone, undertone := tone, undertone
			t.Run(string(tone)+"_"+string(undertone), func(t *testing.T) {
				got, fallback := ResolveWithFallback(strings.ToLower(string(tone)), strings.ToLower(string(undertone)))
				assert.Equal(t, FallbackNone, fallback)
				assert.Equal(t, tone, got.SkinTone)
				assert.Equal(t, undertone, got.Undertone)
				assert.NotEmpty(t, got.ImageURL)
			})
		}
	}
}

func TestResolveUnknownSkinToneUsesMediumBucket(t *testing.T) {
	for _, undertone := range []string{"cool", "warm", "neutral", "sparkly", ""} {
		got, fallback := ResolveWithFallback("alien-green", undertone)
		assert.Equal(t, ToneMedium, got.SkinTone, "undertone %q", undertone)
		assert.Equal(t, FallbackBucket, fallback)
	}
}

func TestResolveUnknownUndertoneUsesFirstEntry(t *testing.T) {
	got, fallback := ResolveWithFallback("fair", "sparkly")
	require.Equal(t, FallbackUndertone, fallback)
	if diff := cmp.Diff(buckets["fair"][0], got); diff != "" {
		t.Fatalf("unexpected profile (-want +got):\n%s", diff)
	}
	assert.Equal(t, UndertoneCool, got.Undertone)
}

func TestResolveIgnoresCase(t *testing.T) {
	upper := Resolve("FAIR", "Cool")
	lower := Resolve("fair", "cool")
	if diff := cmp.Diff(lower, upper); diff != "" {
		t.Fatalf("case changed the result (-lower +upper):\n%s", diff)
	}
	assert.Equal(t, ToneFair, upper.SkinTone, "output uses canonical casing")
}

func TestResolveDoesNotPartialMatch(t *testing.T) {
	got, fallback := ResolveWithFallback(" fair", "cool")
	assert.Equal(t, FallbackBucket, fallback)
	assert.Equal(t, ToneMedium, got.SkinTone)

	got, fallback = ResolveWithFallback("tan", "warmish")
	assert.Equal(t, FallbackUndertone, fallback)
	assert.Equal(t, UndertoneCool, got.Undertone)
}

func TestResolveIsPure(t *testing.T) {
	first := Resolve("deep", "warm")
	first.Description = "mutated by caller"
	second := Resolve("deep", "warm")
	third := Resolve("deep", "warm")
	assert.NotEqual(t, first.Description, second.Description)
	assert.Equal(t, "Deep skin with warm undertones", second.Description)
	assert.Equal(t, second, third)
}

func TestVariationsReturnsMatchingTone(t *testing.T) {
	got := Variations("deep", 3)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.Equal(t, ToneDeep, p.SkinTone)
	}

	got = Variations("FAIR", 2)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, ToneFair, p.SkinTone)
	}
}

func TestVariationsFallsBackToPoolHead(t *testing.T) {
	cases := []struct {
		name  string
		tone  string
		count int
	}{
		{name: "insufficient_matches", tone: "fair", count: 3},
		{name: "no_matches", tone: "dark", count: 3},
		{name: "unknown_tone", tone: "alien-green", count: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, fellBack := VariationsWithFallback(tc.tone, tc.count)
			require.True(t, fellBack)
			require.Len(t, got, tc.count)
			if diff := cmp.Diff(variationPool[:tc.count], got); diff != "" {
				t.Fatalf("expected pool head (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVariationsClampsCount(t *testing.T) {
	assert.Empty(t, Variations("fair", 0))
	assert.Len(t, Variations("alien", 100), PoolSize())
}

func TestVariationsDoesNotShareBackingArray(t *testing.T) {
	got := Variations("alien", 2)
	got[0].Description = "changed"
	assert.NotEqual(t, "changed", Variations("alien", 2)[0].Description)
}

func TestForOccasionAppendsLabel(t *testing.T) {
	for _, occasion := range []string{"Work", "Date", "Party", "Wedding", "Evening"} {
		base := Resolve("tan", "neutral")
		got := ForOccasion("tan", "neutral", occasion)
		assert.Equal(t, base.Description+" - "+occasion+" look", got.Description)
		assert.Equal(t, base.ImageURL, got.ImageURL)
		assert.Equal(t, base.SkinTone, got.SkinTone)
		assert.Equal(t, base.Undertone, got.Undertone)
	}
}

func TestBucketsAreUniqueByUndertone(t *testing.T) {
	for key, bucket := range buckets {
		seen := map[Undertone]bool{}
		for _, p := range bucket {
			require.False(t, seen[p.Undertone], "bucket %s repeats %s", key, p.Undertone)
			seen[p.Undertone] = true
			assert.Equal(t, key, strings.ToLower(string(p.SkinTone)))
		}
		require.NotEmpty(t, bucket)
	}
	require.Contains(t, buckets, defaultBucket)
}

func TestParseSkinTone(t *testing.T) {
	assert.Equal(t, ToneTan, ParseSkinTone("TAN"))
	assert.Equal(t, ToneMedium, ParseSkinTone("olive"))

	u, ok := ParseUndertone("Neutral")
	assert.True(t, ok)
	assert.Equal(t, UndertoneNeutral, u)
	_, ok = ParseUndertone("olive")
	assert.False(t, ok)
}
