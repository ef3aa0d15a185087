package caption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vocapita/vocapita/internal/platform"
)

func TestCleanCaption_StripsOneQuotePair(t *testing.T) {
	got := CleanCaption(`"Check out my new post!"`)

	assert.Equal(t, "Check out my new post!", got)
}

func TestCleanCaption_KeepsInnerQuotes(t *testing.T) {
	got := CleanCaption(`""nested""`)

	assert.Equal(t, `"nested"`, got)
}

func TestCleanCaption_UnquotedTextUnchanged(t *testing.T) {
	got := CleanCaption("  plain caption with \"some\" quotes inside \n")

	assert.Equal(t, `plain caption with "some" quotes inside`, got)
}

func TestCleanCaption_SingleQuoteChar(t *testing.T) {
	// A lone double quote is length 1; nothing to strip.
	got := CleanCaption(`"`)

	assert.Equal(t, `"`, got)
}

func TestCleanCaption_TrimsBeforeStripping(t *testing.T) {
	got := CleanCaption("\n  \"Hola mundo\"  \n")

	assert.Equal(t, "Hola mundo", got)
}

func TestBuildPrompt_IncludesStyleFields(t *testing.T) {
	style := platform.StyleFor(platform.Twitter)

	system, user := BuildPrompt(style, "Hello world")

	assert.Contains(t, system, "Twitter/X")
	assert.Contains(t, system, "concise, witty, and impactful")
	assert.Contains(t, system, "Character Limit: 280")
	assert.Contains(t, system, "Recommended Hashtags: 2")
	assert.Contains(t, system, "PRESERVE THE ORIGINAL LANGUAGE")
	assert.Contains(t, system, "DO NOT surround the caption with quotation marks")
	assert.Contains(t, user, `"Hello world"`)
}

func TestBuildPrompt_ZeroHashtagsOmitsHashtagGuidance(t *testing.T) {
	for _, p := range []platform.Platform{platform.Slack, platform.Email, platform.WhatsApp} {
		system, user := BuildPrompt(platform.StyleFor(p), "Hello world")

		assert.NotContains(t, strings.ToLower(system), "hashtag", "platform %s", p)
		assert.NotContains(t, strings.ToLower(user), "hashtag", "platform %s", p)
	}
}

func TestBuildPrompt_RuleNumberingStaysSequential(t *testing.T) {
	system, _ := BuildPrompt(platform.StyleFor(platform.Slack), "standup notes")

	// With hashtag guidance omitted the remaining rules renumber 1..7.
	assert.Contains(t, system, "1. PRESERVE THE ORIGINAL LANGUAGE")
	assert.Contains(t, system, "7. DO NOT surround the caption")
	assert.NotContains(t, system, "8.")
}
