package caption

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/vocapita/vocapita/internal/apierr"
	"github.com/vocapita/vocapita/internal/platform"
)

// AnthropicGenerator generates captions via the Anthropic messages API. It is
// the alternate provider, selected with CAPTION_PROVIDER=anthropic.
type AnthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicGenerator creates an Anthropic-backed caption generator.
func NewAnthropicGenerator(apiKey string, timeout time.Duration, opts ...option.RequestOption) *AnthropicGenerator {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}

	return &AnthropicGenerator{
		client: anthropic.NewClient(append(base, opts...)...),
		model:  anthropic.ModelClaudeSonnet4_5_20250929,
	}
}

// Generate produces one caption for the given transcript and platform.
func (g *AnthropicGenerator) Generate(
	ctx context.Context,
	transcript string,
	p platform.Platform,
) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", apierr.ErrEmptyTranscript
	}

	system, user := BuildPrompt(platform.StyleFor(p), transcript)

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       g.model,
		MaxTokens:   captionMaxTokens,
		Temperature: anthropic.Float(captionTemperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", apierr.FromAnthropic(err)
	}

	if len(resp.Content) == 0 {
		return FallbackCaption, nil
	}

	textBlock, ok := resp.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return FallbackCaption, nil
	}

	return CleanCaption(textBlock.Text), nil
}
