package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/vocapita/vocapita/internal/appstate"
	"github.com/vocapita/vocapita/internal/audio"
	"github.com/vocapita/vocapita/internal/caption"
	"github.com/vocapita/vocapita/internal/config"
	"github.com/vocapita/vocapita/internal/keyring"
	"github.com/vocapita/vocapita/internal/platform"
	"github.com/vocapita/vocapita/internal/session"
	"github.com/vocapita/vocapita/internal/store"
	"github.com/vocapita/vocapita/internal/transcribe"
	"github.com/vocapita/vocapita/internal/workdir"
	"github.com/vocapita/vocapita/internal/workflow"
	"github.com/vocapita/vocapita/pkg/controls"
)

// CLI defines the vocapita command structure.
type CLI struct {
	Record    RecordCmd    `cmd:"" default:"withargs" help:"Record a voice memo and transcribe it"`
	Caption   CaptionCmd   `cmd:"" help:"Generate a social media caption from a transcript"`
	List      ListCmd      `cmd:"" help:"List saved recordings"`
	Delete    DeleteCmd    `cmd:"" help:"Delete a recording"`
	Platforms PlatformsCmd `cmd:"" help:"List supported social media platforms"`
	Devices   DevicesCmd   `cmd:"" help:"List available audio devices"`
	Config    ConfigCmd    `cmd:"" help:"Manage configuration"`
}

// RecordCmd captures audio until Enter is pressed, transcribes it, and saves
// the transcript.
type RecordCmd struct {
	OpenAIAPIKey string        `flag:"" env:"OPENAI_API_KEY" help:"OpenAI API key for transcription"`
	Timeout      time.Duration `flag:"" default:"60s" help:"Transcription request timeout"`
	MaxBytes     int64         `flag:"" default:"268435456" help:"Max capture size (256MB)"`
}

// Run executes the record command.
func (c *RecordCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	key, err := resolveKey(c.OpenAIAPIKey, keyring.OpenAI)
	if err != nil {
		return err
	}

	if err := workdir.Prep(); err != nil {
		return fmt.Errorf("failed to prepare working directory: %w", err)
	}

	audioDir, err := workdir.AudioDir()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	capture := audio.NewCapture(audio.DefaultDeviceConfig())
	transcriber := transcribe.NewWhisperClient(key, c.Timeout)
	ctrl := session.NewController(session.DevicePermission{}, capture, transcriber, audioDir)

	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}

	fmt.Println("Recording... press Enter to stop.")

	// Show input level and capture size until the user stops the session.
	levelDone := make(chan struct{})
	go showCaptureStatus(levelDone, capture.Meter(), capture.SizeDial(c.MaxBytes))

	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	close(levelDone)
	fmt.Println("\nTranscribing...")

	if err := ctrl.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop recording: %w", err)
	}

	// The controller returns to Idle on both outcomes; only success delivers
	// a completion.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case comp := <-ctrl.Completions():
			rec := store.NewRecording(comp.Transcript, nil, comp.Duration)
			if err := st.Insert(rec); err != nil {
				return fmt.Errorf("failed to save recording: %w", err)
			}
			fmt.Printf("Saved %s (%s)\n\n%s\n", rec.ID, comp.Duration.Round(time.Second), comp.Transcript)
			return nil
		case <-ticker.C:
			if ctrl.State() == session.Idle {
				if msg := ctrl.ErrorMessage(); msg != "" {
					return errors.New(msg)
				}
			}
		}
	}
}

// CaptionCmd generates a caption for a saved recording or a literal transcript.
type CaptionCmd struct {
	Platform        string        `arg:"" optional:"" help:"Target platform (defaults to the configured platform)"`
	Recording       string        `flag:"" optional:"" help:"Recording ID to caption"`
	Transcript      string        `flag:"" optional:"" help:"Literal transcript to caption"`
	Provider        string        `flag:"" default:"openai" enum:"openai,anthropic" help:"Caption provider"`
	Open            bool          `flag:"" help:"Open the platform's web composer after generating"`
	OpenAIAPIKey    string        `flag:"" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	AnthropicAPIKey string        `flag:"" env:"ANTHROPIC_API_KEY" help:"Anthropic API key"`
	Timeout         time.Duration `flag:"" default:"60s" help:"Caption request timeout"`
}

// Run executes the caption command.
func (c *CaptionCmd) Run() error {
	ctx := context.Background()

	p, err := c.resolvePlatform()
	if err != nil {
		return err
	}

	transcript, err := c.resolveTranscript()
	if err != nil {
		return err
	}

	var generator caption.Generator
	switch c.Provider {
	case config.ProviderAnthropic:
		key, err := resolveKey(c.AnthropicAPIKey, keyring.Anthropic)
		if err != nil {
			return err
		}
		generator = caption.NewAnthropicGenerator(key, c.Timeout)
	default:
		key, err := resolveKey(c.OpenAIAPIKey, keyring.OpenAI)
		if err != nil {
			return err
		}
		generator = caption.NewOpenAIGenerator(key, c.Timeout)
	}

	coord := workflow.NewCoordinator(generator, workflow.Opener{})

	res, err := coord.Generate(ctx, transcript, p)
	if err != nil {
		return fmt.Errorf("failed to generate caption: %w", err)
	}

	info := platform.Lookup(p)
	fmt.Printf("%s (%d chars, limit %d):\n\n%s\n", info.DisplayName, len(res.Caption), info.CharacterLimit, res.Caption)

	if c.Open {
		if err := coord.Accept(res); err != nil {
			return fmt.Errorf("failed to open composer: %w", err)
		}
	}

	return nil
}

func (c *CaptionCmd) resolvePlatform() (platform.Platform, error) {
	if c.Platform != "" {
		return platform.Parse(c.Platform)
	}

	statePath, err := workdir.StatePath()
	if err != nil {
		return "", err
	}
	state, err := appstate.NewStore(statePath).Load()
	if err != nil {
		return "", err
	}
	return state.DefaultPlatform, nil
}

func (c *CaptionCmd) resolveTranscript() (string, error) {
	if c.Transcript != "" {
		return c.Transcript, nil
	}
	if c.Recording == "" {
		return "", errors.New("provide --recording <id> or --transcript <text>")
	}

	id, err := uuid.Parse(c.Recording)
	if err != nil {
		return "", fmt.Errorf("invalid recording id: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return "", err
	}
	defer st.Close()

	rec, err := st.Get(id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("recording %s not found", id)
	}
	return rec.Transcript, nil
}

// ListCmd lists saved recordings, newest first.
type ListCmd struct {
	Search string `flag:"" optional:"" help:"Filter transcripts by substring"`
}

// Run executes the list command.
func (c *ListCmd) Run() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var recs []store.Recording
	if c.Search != "" {
		recs, err = st.Search(c.Search)
	} else {
		recs, err = st.List()
	}
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("No recordings.")
		return nil
	}

	for _, rec := range recs {
		preview := rec.Transcript
		if len(preview) > 72 {
			preview = preview[:72] + "..."
		}
		fmt.Printf("%s  %s  %s\n", rec.ID, rec.Timestamp.Local().Format(time.DateTime), preview)
	}

	return nil
}

// DeleteCmd deletes a recording by ID.
type DeleteCmd struct {
	ID string `arg:"" help:"Recording ID"`
}

// Run executes the delete command.
func (c *DeleteCmd) Run() error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("invalid recording id: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(id); err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}

	fmt.Println("Deleted.")

	return nil
}

// PlatformsCmd lists supported platforms and their style parameters.
type PlatformsCmd struct{}

// Run executes the platforms command.
func (c *PlatformsCmd) Run() error {
	for _, p := range platform.All() {
		info := platform.Lookup(p)
		fmt.Printf("%-12s  limit %5d  hashtags %d  %s\n",
			p, info.CharacterLimit, info.HashtagCount, info.Tone)
	}

	return nil
}

// DevicesCmd lists available audio devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (c *DevicesCmd) Run() error {
	slog.Info("Enumerating audio devices...")

	adev := audio.NewDevice(audio.DefaultDeviceConfig())
	devices, err := adev.EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Audio Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formats", dev.Formats,
		)
	}

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey      SetKeyCmd      `cmd:"" help:"Store an API key in system keychain"`
	ListKeys    ListKeysCmd    `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
	SetPlatform SetPlatformCmd `cmd:"" name:"set-platform" help:"Set the default caption platform"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"openai,anthropic" help:"Service name (openai or anthropic)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	allSet := true

	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
			allSet = false
		}
	}

	if !allSet {
		fmt.Println("\nRun 'vocapita config set-key <service> <key>' to configure.")
	}

	return nil
}

// SetPlatformCmd sets the default caption platform.
type SetPlatformCmd struct {
	Platform string `arg:"" help:"Platform identifier (see 'vocapita platforms')"`
}

// Run executes the set-platform command.
func (c *SetPlatformCmd) Run() error {
	p, err := platform.Parse(c.Platform)
	if err != nil {
		return err
	}

	statePath, err := workdir.StatePath()
	if err != nil {
		return err
	}

	stateStore := appstate.NewStore(statePath)
	state, err := stateStore.Load()
	if err != nil {
		return err
	}

	state.DefaultPlatform = p
	if err := stateStore.Save(state); err != nil {
		return err
	}

	fmt.Printf("Default platform set to %s\n", p)

	return nil
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}

// showCaptureStatus renders a level bar and size readout until done closes.
func showCaptureStatus(done <-chan struct{}, level controls.Dial[float32], size controls.CappedDial[int64]) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			lvl := level.Read()
			bars := int(lvl * 40)
			current, maxBytes := size.Cap()
			fmt.Printf("\r[%-40s] %5.1f%%  %6.1f/%.0f MB",
				strings.Repeat("#", bars), lvl*100,
				float64(current)/(1<<20), float64(maxBytes)/(1<<20))
		}
	}
}

// resolveKey prefers the flag/env value, then the system keychain.
func resolveKey(flagValue string, key keyring.APIKey) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	secret, err := keyring.Get(key)
	if err != nil {
		slog.Debug("keychain lookup failed", "key", key.DisplayName(), "error", err)
		return "", fmt.Errorf(
			"missing %s API key: set %s or run 'vocapita config set-key %s <key>'",
			key.DisplayName(), key.EnvVar(), key.DisplayName(),
		)
	}

	return secret, nil
}

func openStore() (*store.Store, error) {
	if err := workdir.Prep(); err != nil {
		return nil, fmt.Errorf("failed to prepare working directory: %w", err)
	}

	dbPath, err := workdir.DatabasePath()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open recordings database: %w", err)
	}

	return st, nil
}
