package platform

// Style is the prompt-facing view of a catalog entry: the fields the caption
// generator folds into its instructions. It is a pure function of the
// platform, recomputed on demand and never cached.
type Style struct {
	Platform            Platform
	DisplayName         string
	Tone                string
	CharacterLimit      int
	HashtagCount        int
	SpecialInstructions string
}

// StyleFor derives the caption style for a platform.
func StyleFor(p Platform) Style {
	info := Lookup(p)

	return Style{
		Platform:            p,
		DisplayName:         info.DisplayName,
		Tone:                info.Tone,
		CharacterLimit:      info.CharacterLimit,
		HashtagCount:        info.HashtagCount,
		SpecialInstructions: info.Instructions,
	}
}
