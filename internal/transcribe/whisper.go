package transcribe

import (
	"context"
	"io"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/vocapita/vocapita/internal/apierr"
)

// WhisperClient transcribes audio with the OpenAI Whisper API. No language
// code is sent: the provider auto-detects, which is what enables dictation in
// 90+ languages.
type WhisperClient struct {
	client openai.Client
	model  openai.AudioModel
}

// NewWhisperClient creates a Whisper transcription client. Retries are
// disabled; a failed transcription is surfaced and the user records again.
func NewWhisperClient(apiKey string, timeout time.Duration, opts ...option.RequestOption) *WhisperClient {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}

	return &WhisperClient{
		client: openai.NewClient(append(base, opts...)...),
		model:  openai.AudioModelWhisper1,
	}
}

// Transcribe submits the audio stream and returns the transcript text.
func (c *WhisperClient) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           openai.File(audio, "recording.mp3", "audio/mpeg"),
		Model:          c.model,
		ResponseFormat: openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", apierr.FromOpenAI(err)
	}

	return resp.Text, nil
}
