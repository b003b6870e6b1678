package complexion

const defaultBucket = "medium"

const (
	imgCoolPorcelain = "https://images.unsplash.com/photo-1616683693504-3ea7e9ad6fec?w=800&q=80"
	imgWarmIvory     = "https://images.unsplash.com/photo-1614436163996-25cee5f54290?w=800&q=80"
	imgSoftBeige     = "https://images.unsplash.com/photo-1598440947619-2c35fc9aa908?w=800&q=80"
	imgRosyLight     = "https://images.unsplash.com/photo-1619895092538-128341789043?w=800&q=80"
	imgGoldenLight   = "https://images.unsplash.com/photo-1596704017254-9b121068ec31?w=800&q=80"
	imgNeutralLight  = "https://images.unsplash.com/photo-1515377905703-c4788e51af15?w=800&q=80"
	imgDeepCool      = "https://images.unsplash.com/photo-1531123897727-8f129e1688ce?w=800&q=80"
	imgDeepWarm      = "https://images.unsplash.com/photo-1580489944761-15a19d654956?w=800&q=80"
	imgDeepNeutral   = "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=800&q=80"
)

// buckets is keyed by lower-case skin tone. Entries within a bucket are
// ordered Cool, Warm, Neutral; index 0 is the undertone fallback.
var buckets = map[string][]Profile{
	"fair": {
		profile(imgCoolPorcelain, ToneFair, UndertoneCool),
		profile(imgWarmIvory, ToneFair, UndertoneWarm),
		profile(imgSoftBeige, ToneFair, UndertoneNeutral),
	},
	"light": {
		profile(imgRosyLight, ToneLight, UndertoneCool),
		profile(imgGoldenLight, ToneLight, UndertoneWarm),
		profile(imgNeutralLight, ToneLight, UndertoneNeutral),
	},
	"medium": {
		profile(imgCoolPorcelain, ToneMedium, UndertoneCool),
		profile(imgSoftBeige, ToneMedium, UndertoneWarm),
		profile(imgWarmIvory, ToneMedium, UndertoneNeutral),
	},
	"tan": {
		profile(imgGoldenLight, ToneTan, UndertoneCool),
		profile(imgNeutralLight, ToneTan, UndertoneWarm),
		profile(imgRosyLight, ToneTan, UndertoneNeutral),
	},
	"deep": {
		profile(imgDeepCool, ToneDeep, UndertoneCool),
		profile(imgDeepWarm, ToneDeep, UndertoneWarm),
		profile(imgDeepNeutral, ToneDeep, UndertoneNeutral),
	},
	"dark": {
		profile(imgDeepCool, ToneDark, UndertoneCool),
		profile(imgDeepWarm, ToneDark, UndertoneWarm),
		profile(imgDeepNeutral, ToneDark, UndertoneNeutral),
	},
}

// variationPool is flat and spans every tone. Dark has no entries, so
// Variations for dark always falls through to the pool head.
var variationPool = []Profile{
	profile(imgCoolPorcelain, ToneFair, UndertoneCool),
	profile(imgWarmIvory, ToneFair, UndertoneWarm),
	profile(imgRosyLight, ToneLight, UndertoneCool),
	profile(imgGoldenLight, ToneLight, UndertoneWarm),
	profile(imgSoftBeige, ToneMedium, UndertoneWarm),
	profile(imgNeutralLight, ToneMedium, UndertoneNeutral),
	profile(imgCoolPorcelain, ToneTan, UndertoneCool),
	profile(imgDeepCool, ToneDeep, UndertoneCool),
	profile(imgDeepWarm, ToneDeep, UndertoneWarm),
	profile(imgDeepNeutral, ToneDeep, UndertoneNeutral),
}

func profile(url string, tone SkinTone, undertone Undertone) Profile {
	return Profile{
		ImageURL:    url,
		SkinTone:    tone,
		Undertone:   undertone,
		Description: describe(tone, undertone),
	}
}

func describe(tone SkinTone, undertone Undertone) string {
	return string(tone) + " skin with " + normalize(string(undertone)) + " undertones"
}

// PoolSize returns the number of entries in the variations pool.
func PoolSize() int {
	return len(variationPool)
}
