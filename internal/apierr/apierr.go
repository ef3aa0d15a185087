// Package apierr defines the error taxonomy shared by the transcription and
// caption clients. Every failure from an external provider is classified into
// one of these kinds so callers can surface it verbatim and let the user
// decide whether to retry.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	openai "github.com/openai/openai-go"
)

var (
	// ErrPermissionDenied indicates the capture permission was not granted.
	ErrPermissionDenied = errors.New("audio capture permission denied")

	// ErrEmptyTranscript indicates captioning was attempted with an empty
	// transcript. Rejected locally, never sent to the provider.
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// ProviderError reports a non-success status from an external provider. The
// raw status code and response body are preserved, not swallowed.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Body)
}

// DecodeError reports a provider response body that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode provider response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NetworkError reports a transport-level failure where no response was
// received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FromOpenAI classifies an error returned by the OpenAI SDK.
func FromOpenAI(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body := strings.TrimSpace(apiErr.RawJSON())
		if body == "" {
			body = apiErr.Message
		}

		return &ProviderError{StatusCode: apiErr.StatusCode, Body: body}
	}

	if isDecodeErr(err) {
		return &DecodeError{Err: err}
	}

	return &NetworkError{Err: err}
}

// FromAnthropic classifies an error returned by the Anthropic SDK.
func FromAnthropic(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			StatusCode: apiErr.StatusCode,
			Body:       strings.TrimSpace(apiErr.RawJSON()),
		}
	}

	if isDecodeErr(err) {
		return &DecodeError{Err: err}
	}

	return &NetworkError{Err: err}
}

func isDecodeErr(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
