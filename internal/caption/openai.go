package caption

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/vocapita/vocapita/internal/apierr"
	"github.com/vocapita/vocapita/internal/platform"
)

// OpenAIGenerator generates captions via the OpenAI chat completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIGenerator creates an OpenAI-backed caption generator. Retries are
// disabled: a failed generation is surfaced to the user, who regenerates
// manually. Extra request options (base URL overrides in tests) are appended
// after the defaults.
func NewOpenAIGenerator(apiKey string, timeout time.Duration, opts ...option.RequestOption) *OpenAIGenerator {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}

	return &OpenAIGenerator{
		client: openai.NewClient(append(base, opts...)...),
		model:  openai.ChatModelGPT4,
	}
}

// Generate produces one caption for the given transcript and platform.
func (g *OpenAIGenerator) Generate(
	ctx context.Context,
	transcript string,
	p platform.Platform,
) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", apierr.ErrEmptyTranscript
	}

	system, user := BuildPrompt(platform.StyleFor(p), transcript)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(captionMaxTokens),
		Temperature: openai.Float(captionTemperature),
	})
	if err != nil {
		return "", apierr.FromOpenAI(err)
	}

	if len(resp.Choices) == 0 {
		return FallbackCaption, nil
	}

	return CleanCaption(resp.Choices[0].Message.Content), nil
}
