// Package session orchestrates one audio-capture-to-transcript cycle,
// bounded by start and stop actions.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vocapita/vocapita/internal/apierr"
	"github.com/vocapita/vocapita/internal/transcribe"
	"github.com/vocapita/vocapita/pkg/channels"
)

// State is the controller's explicit lifecycle state. Using a single enum
// instead of independent boolean flags makes illegal combinations
// unrepresentable.
type State int

const (
	Idle State = iota
	Recording
	Transcribing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Completion is emitted exactly once per successful session, after the
// transcript and duration are final. The caller persists the recording.
type Completion struct {
	Transcript string
	Duration   time.Duration
}

// Permission gates access to the capture device.
type Permission interface {
	Granted() bool
	Request()
}

// Recorder records audio to outputPath between Start and Stop.
type Recorder interface {
	Start(ctx context.Context, outputPath string) error
	Stop(ctx context.Context) error
}

// Controller drives the Idle -> Recording -> Transcribing -> Idle state
// machine. Exactly one capture session may be active at a time.
type Controller struct {
	perm        Permission
	recorder    Recorder
	transcriber transcribe.Transcriber
	audioDir    string

	mu         sync.Mutex
	state      State
	transcript string
	errMsg     string
	startedAt  time.Time
	audioPath  string

	completions chan Completion
}

// NewController creates an idle controller. Transient audio files are written
// under audioDir and removed after transcription.
func NewController(
	perm Permission,
	recorder Recorder,
	transcriber transcribe.Transcriber,
	audioDir string,
) *Controller {
	return &Controller{
		perm:        perm,
		recorder:    recorder,
		transcriber: transcriber,
		audioDir:    audioDir,
		completions: make(chan Completion, 1),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript returns the transcript of the last completed session, or "".
func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

// ErrorMessage returns the last error's description, or "".
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Completions returns the channel on which completion events are delivered.
func (c *Controller) Completions() <-chan Completion {
	return c.completions
}

// Start begins a capture session. Requires a granted capture permission; when
// permission is missing, a request is issued and the controller stays Idle.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		return fmt.Errorf("cannot start recording while %s", c.state)
	}

	if !c.perm.Granted() {
		c.perm.Request()
		return apierr.ErrPermissionDenied
	}

	c.transcript = ""
	c.errMsg = ""

	path := filepath.Join(c.audioDir, fmt.Sprintf("recording_%d.mp3", time.Now().UnixNano()))
	if err := c.recorder.Start(ctx, path); err != nil {
		c.errMsg = err.Error()
		return fmt.Errorf("failed to start capture: %w", err)
	}

	c.audioPath = path
	c.startedAt = time.Now()
	c.state = Recording
	slog.Debug("capture started", "path", path)

	return nil
}

// Stop finalizes the capture and dispatches transcription asynchronously.
// Once dispatched there is no cancellation path; the request runs to
// completion or failure.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Recording {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("cannot stop recording while %s", state)
	}
	c.state = Transcribing
	path := c.audioPath
	startedAt := c.startedAt
	c.mu.Unlock()

	if err := c.recorder.Stop(ctx); err != nil {
		c.fail(err)
		removeArtifact(path)
		return fmt.Errorf("failed to finalize capture: %w", err)
	}

	go c.transcribeFile(context.WithoutCancel(ctx), path, startedAt)

	return nil
}

func (c *Controller) transcribeFile(ctx context.Context, path string, startedAt time.Time) {
	// The transient artifact is removed whether transcription succeeds or
	// fails; a failed session keeps nothing on disk.
	defer removeArtifact(path)

	file, err := os.Open(path)
	if err != nil {
		c.fail(fmt.Errorf("failed to open audio file: %w", err))
		return
	}

	text, err := c.transcriber.Transcribe(ctx, file)
	file.Close()
	if err != nil {
		c.fail(err)
		return
	}

	duration := time.Since(startedAt)

	c.mu.Lock()
	c.transcript = text
	c.state = Idle
	c.mu.Unlock()

	// Transcript and duration are final before the event fires.
	if err := channels.SendNonBlock(c.completions, Completion{Transcript: text, Duration: duration}); err != nil {
		slog.Debug("completion event dropped", "error", err)
	}
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.errMsg = err.Error()
	c.state = Idle
	c.mu.Unlock()
	slog.Error("transcription session failed", "error", err)
}

func removeArtifact(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove audio artifact", "path", path, "error", err)
	}
}
