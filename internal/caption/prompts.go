package caption

import (
	"fmt"
	"strings"

	"github.com/vocapita/vocapita/internal/platform"
)

// BuildPrompt assembles the system and user messages for one caption request.
// The system message carries the platform style from the catalog plus two
// hard rules: keep the transcript's original language, and never wrap the
// caption in quotation marks. Hashtag guidance is omitted entirely for
// platforms whose recommended hashtag count is zero.
func BuildPrompt(style platform.Style, transcript string) (system, user string) {
	var header strings.Builder

	fmt.Fprintf(&header,
		"You are a social media expert specializing in creating engaging content for %s.\n\n",
		style.DisplayName)
	fmt.Fprintf(&header, "Platform: %s\n", style.DisplayName)
	fmt.Fprintf(&header, "Tone: %s\n", style.Tone)
	fmt.Fprintf(&header, "Character Limit: %d\n", style.CharacterLimit)

	if style.HashtagCount > 0 {
		fmt.Fprintf(&header, "Recommended Hashtags: %d\n", style.HashtagCount)
	}

	fmt.Fprintf(&header, "\nSpecial Instructions: %s\n", style.SpecialInstructions)

	rules := []string{
		"PRESERVE THE ORIGINAL LANGUAGE - Write the caption in the same language as the input text",
		"Stay within the character limit",
	}
	if style.HashtagCount > 0 {
		rules = append(rules, fmt.Sprintf("Use appropriate hashtags (%d recommended)", style.HashtagCount))
	}
	rules = append(rules,
		fmt.Sprintf("Match the platform's typical %s tone", style.Tone),
		"Make it engaging and shareable",
		"Include relevant emojis where appropriate",
		"Optimize for the platform's algorithm and user behavior",
		"DO NOT surround the caption with quotation marks - return the raw caption text only",
	)

	header.WriteString("\nRules:\n")
	for i, rule := range rules {
		fmt.Fprintf(&header, "%d. %s\n", i+1, rule)
	}

	var body strings.Builder

	fmt.Fprintf(&body,
		"Convert this transcribed text into an optimized %s caption:\n\n%q\n\n",
		style.DisplayName, transcript)
	body.WriteString("IMPORTANT:\n")
	body.WriteString("- Keep the caption in the SAME LANGUAGE as the original text\n")
	body.WriteString("- DO NOT put the caption in quotation marks\n")
	body.WriteString("- Return only the raw caption text ready to post\n")
	if style.HashtagCount > 0 {
		body.WriteString("- Only the hashtags can be in English if they are commonly used that way\n")
	}
	fmt.Fprintf(&body,
		"\nCreate a caption that's perfectly tailored for %s with the right tone and formatting.",
		style.DisplayName)

	return header.String(), body.String()
}
