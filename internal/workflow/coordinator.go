// Package workflow coordinates caption generation for an existing transcript
// and hands accepted captions to the publishing collaborator.
package workflow

import (
	"context"
	"strings"

	"github.com/vocapita/vocapita/internal/apierr"
	"github.com/vocapita/vocapita/internal/caption"
	"github.com/vocapita/vocapita/internal/platform"
)

// Result is one generated caption. It lives for one request/response cycle;
// regenerating replaces it wholesale.
type Result struct {
	Transcript string
	Platform   platform.Platform
	Caption    string
}

// Publisher delivers an accepted caption to its destination (clipboard,
// target app). Best-effort; there is no richer contract.
type Publisher interface {
	Publish(res Result) error
}

// DiscardPublisher accepts captions without delivering them anywhere, for
// surfaces where the caller handles the caption itself (the HTTP API returns
// it in the response body).
type DiscardPublisher struct{}

// Publish does nothing.
func (DiscardPublisher) Publish(_ Result) error { return nil }

// Coordinator wraps a caption.Generator with input validation and the accept
// action. Generate may be called repeatedly; each call is independent.
type Coordinator struct {
	generator caption.Generator
	publisher Publisher
}

// NewCoordinator creates a coordinator.
func NewCoordinator(generator caption.Generator, publisher Publisher) *Coordinator {
	return &Coordinator{
		generator: generator,
		publisher: publisher,
	}
}

// Generate produces a caption for the transcript, tailored to the platform.
// An empty transcript is rejected before anything reaches the provider.
func (c *Coordinator) Generate(
	ctx context.Context,
	transcript string,
	p platform.Platform,
) (Result, error) {
	if strings.TrimSpace(transcript) == "" {
		return Result{}, apierr.ErrEmptyTranscript
	}

	text, err := c.generator.Generate(ctx, transcript, p)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Transcript: transcript,
		Platform:   p,
		Caption:    text,
	}, nil
}

// Accept hands the final caption to the publisher.
func (c *Coordinator) Accept(res Result) error {
	return c.publisher.Publish(res)
}
