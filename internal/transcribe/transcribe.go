// Package transcribe turns recorded audio into text via a speech-to-text
// provider.
package transcribe

import (
	"context"
	"io"
)

// Transcriber transcribes one finite audio stream into plain text. The caller
// owns the audio artifact; implementations never delete it.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}
