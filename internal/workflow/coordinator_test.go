package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocapita/vocapita/internal/apierr"
	"github.com/vocapita/vocapita/internal/caption"
	"github.com/vocapita/vocapita/internal/platform"
)

type stubGenerator struct {
	calls    int
	captions []string
	err      error
}

func (s *stubGenerator) Generate(_ context.Context, _ string, _ platform.Platform) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.captions[s.calls-1], nil
}

type stubPublisher struct {
	published []Result
	err       error
}

func (s *stubPublisher) Publish(res Result) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, res)
	return nil
}

func TestCoordinator_Generate(t *testing.T) {
	gen := &stubGenerator{captions: []string{"Fresh takes, daily."}}
	coord := NewCoordinator(gen, &stubPublisher{})

	res, err := coord.Generate(context.Background(), "talked about fresh takes", platform.Twitter)
	require.NoError(t, err)
	assert.Equal(t, "Fresh takes, daily.", res.Caption)
	assert.Equal(t, platform.Twitter, res.Platform)
	assert.Equal(t, "talked about fresh takes", res.Transcript)
	assert.Equal(t, 1, gen.calls)
}

func TestCoordinator_EmptyTranscript(t *testing.T) {
	gen := &stubGenerator{captions: []string{"never"}}
	coord := NewCoordinator(gen, &stubPublisher{})

	_, err := coord.Generate(context.Background(), "   \n\t ", platform.Instagram)
	require.ErrorIs(t, err, apierr.ErrEmptyTranscript)
	assert.Zero(t, gen.calls, "nothing should reach the provider")
}

func TestCoordinator_RegenerateReplaces(t *testing.T) {
	gen := &stubGenerator{captions: []string{"first attempt", "second attempt"}}
	coord := NewCoordinator(gen, &stubPublisher{})

	first, err := coord.Generate(context.Background(), "a transcript", platform.LinkedIn)
	require.NoError(t, err)
	second, err := coord.Generate(context.Background(), "a transcript", platform.LinkedIn)
	require.NoError(t, err)

	assert.Equal(t, "first attempt", first.Caption)
	assert.Equal(t, "second attempt", second.Caption)
	assert.Equal(t, 2, gen.calls, "every regenerate is a fresh provider call")
}

func TestCoordinator_GeneratorError(t *testing.T) {
	provErr := &apierr.ProviderError{StatusCode: 500, Body: "boom"}
	gen := &stubGenerator{err: provErr}
	coord := NewCoordinator(gen, &stubPublisher{})

	_, err := coord.Generate(context.Background(), "a transcript", platform.Facebook)
	var got *apierr.ProviderError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 500, got.StatusCode)
}

func TestCoordinator_FallbackIsNotAnError(t *testing.T) {
	gen := &stubGenerator{captions: []string{caption.FallbackCaption}}
	coord := NewCoordinator(gen, &stubPublisher{})

	res, err := coord.Generate(context.Background(), "a transcript", platform.TikTok)
	require.NoError(t, err)
	assert.Equal(t, caption.FallbackCaption, res.Caption)
}

func TestCoordinator_Accept(t *testing.T) {
	pub := &stubPublisher{}
	coord := NewCoordinator(&stubGenerator{captions: []string{"ship it"}}, pub)

	res, err := coord.Generate(context.Background(), "a transcript", platform.Slack)
	require.NoError(t, err)
	require.NoError(t, coord.Accept(res))
	require.Len(t, pub.published, 1)
	assert.Equal(t, "ship it", pub.published[0].Caption)
}

func TestCoordinator_AcceptWithDiscardPublisher(t *testing.T) {
	coord := NewCoordinator(&stubGenerator{captions: []string{"x"}}, DiscardPublisher{})

	err := coord.Accept(Result{Platform: platform.Twitter, Caption: "x"})
	require.NoError(t, err)
}

func TestCoordinator_AcceptError(t *testing.T) {
	pub := &stubPublisher{err: errors.New("browser missing")}
	coord := NewCoordinator(&stubGenerator{captions: []string{"x"}}, pub)

	err := coord.Accept(Result{Platform: platform.Email, Caption: "x"})
	require.Error(t, err)
	assert.Contains(t, fmt.Sprint(err), "browser missing")
}
