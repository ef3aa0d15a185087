// Package caption generates platform-tailored social media captions from
// voice memo transcripts.
package caption

import (
	"context"
	"strings"

	"github.com/vocapita/vocapita/internal/platform"
)

// FallbackCaption is substituted when the provider returns zero choices.
// This keeps the workflow non-blocking instead of treating an empty choice
// list as an error; callers that care compare against this constant.
const FallbackCaption = "Unable to generate caption"

const (
	captionMaxTokens   = 500
	captionTemperature = 0.7
)

// Generator produces one caption per request. Each call is a fresh,
// independent request with no retry or caching; regenerating simply means
// calling Generate again.
type Generator interface {
	Generate(ctx context.Context, transcript string, p platform.Platform) (string, error)
}

// CleanCaption trims surrounding whitespace and strips exactly one pair of
// wrapping double quotes when the provider returned a quoted caption.
func CleanCaption(raw string) string {
	caption := strings.TrimSpace(raw)
	if len(caption) > 1 && strings.HasPrefix(caption, `"`) && strings.HasSuffix(caption, `"`) {
		return caption[1 : len(caption)-1]
	}

	return caption
}
