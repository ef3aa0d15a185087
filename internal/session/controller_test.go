package session

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocapita/vocapita/internal/apierr"
)

// stubPermission implements Permission for testing.
type stubPermission struct {
	granted   bool
	requested bool
}

func (p *stubPermission) Granted() bool { return p.granted }
func (p *stubPermission) Request()      { p.requested = true }

// stubRecorder writes fake audio bytes on Start so the controller has an
// artifact to upload and clean up.
type stubRecorder struct {
	path    string
	stopped bool
}

func (r *stubRecorder) Start(_ context.Context, outputPath string) error {
	r.path = outputPath
	return os.WriteFile(outputPath, []byte("fake audio bytes"), 0o644)
}

func (r *stubRecorder) Stop(_ context.Context) error {
	r.stopped = true
	return nil
}

// stubTranscriber implements transcribe.Transcriber deterministically.
type stubTranscriber struct {
	text  string
	err   error
	calls int
}

func (t *stubTranscriber) Transcribe(_ context.Context, _ io.Reader) (string, error) {
	t.calls++
	return t.text, t.err
}

func newTestController(t *testing.T, perm *stubPermission, tr *stubTranscriber) (*Controller, *stubRecorder) {
	t.Helper()

	rec := &stubRecorder{}
	return NewController(perm, rec, tr, t.TempDir()), rec
}

func TestController_PermissionDenied(t *testing.T) {
	perm := &stubPermission{granted: false}
	tr := &stubTranscriber{text: "should never run"}
	ctrl, _ := newTestController(t, perm, tr)

	err := ctrl.Start(context.Background())

	assert.ErrorIs(t, err, apierr.ErrPermissionDenied)
	assert.True(t, perm.requested, "a permission request is issued")
	assert.Equal(t, Idle, ctrl.State())

	// Stop without an active session is rejected; nothing ever reaches the
	// transcriber, so no Recording can be created.
	assert.Error(t, ctrl.Stop(context.Background()))
	assert.Zero(t, tr.calls)

	select {
	case <-ctrl.Completions():
		t.Fatal("no completion event expected")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestController_SuccessfulSessionEmitsOneCompletion(t *testing.T) {
	perm := &stubPermission{granted: true}
	tr := &stubTranscriber{text: "Hello world"}
	ctrl, rec := newTestController(t, perm, tr)

	require.NoError(t, ctrl.Start(context.Background()))
	assert.Equal(t, Recording, ctrl.State())

	require.NoError(t, ctrl.Stop(context.Background()))

	var completion Completion
	select {
	case completion = <-ctrl.Completions():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion event")
	}

	assert.Equal(t, "Hello world", completion.Transcript)
	assert.GreaterOrEqual(t, completion.Duration, time.Duration(0))
	assert.True(t, rec.stopped)
	assert.Equal(t, 1, tr.calls)

	assert.Eventually(t, func() bool { return ctrl.State() == Idle },
		time.Second, 10*time.Millisecond)
	assert.Equal(t, "Hello world", ctrl.Transcript())
	assert.Empty(t, ctrl.ErrorMessage())

	// Exactly one event: nothing else is buffered.
	select {
	case extra := <-ctrl.Completions():
		t.Fatalf("unexpected second completion: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}

	// The transient artifact is gone after a successful session.
	_, err := os.Stat(rec.path)
	assert.True(t, os.IsNotExist(err))
}

func TestController_ProviderFailureSurfacesStatusAndBody(t *testing.T) {
	perm := &stubPermission{granted: true}
	tr := &stubTranscriber{err: &apierr.ProviderError{StatusCode: 429, Body: "rate limited"}}
	ctrl, rec := newTestController(t, perm, tr)

	require.NoError(t, ctrl.Start(context.Background()))
	require.NoError(t, ctrl.Stop(context.Background()))

	require.Eventually(t, func() bool { return ctrl.State() == Idle },
		time.Second, 10*time.Millisecond)

	assert.Contains(t, ctrl.ErrorMessage(), "429")
	assert.Contains(t, ctrl.ErrorMessage(), "rate limited")
	assert.Empty(t, ctrl.Transcript(), "transcript stays empty on failure")

	select {
	case <-ctrl.Completions():
		t.Fatal("no completion event on failure")
	case <-time.After(50 * time.Millisecond):
	}

	// Cleanup policy: the artifact is removed on failure as well.
	assert.Eventually(t, func() bool {
		_, err := os.Stat(rec.path)
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)
}

func TestController_SingleActiveSession(t *testing.T) {
	perm := &stubPermission{granted: true}
	tr := &stubTranscriber{text: "ok"}
	ctrl, _ := newTestController(t, perm, tr)

	require.NoError(t, ctrl.Start(context.Background()))

	err := ctrl.Start(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "recording")
}

func TestController_StartResetsPriorError(t *testing.T) {
	perm := &stubPermission{granted: true}
	tr := &stubTranscriber{err: &apierr.ProviderError{StatusCode: 500, Body: "boom"}}
	ctrl, _ := newTestController(t, perm, tr)

	require.NoError(t, ctrl.Start(context.Background()))
	require.NoError(t, ctrl.Stop(context.Background()))
	require.Eventually(t, func() bool { return ctrl.ErrorMessage() != "" },
		time.Second, 10*time.Millisecond)

	tr.err = nil
	tr.text = "second try"
	require.NoError(t, ctrl.Start(context.Background()))

	assert.Empty(t, ctrl.ErrorMessage())
	assert.Empty(t, ctrl.Transcript())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "recording", Recording.String())
	assert.Equal(t, "transcribing", Transcribing.String())
}
