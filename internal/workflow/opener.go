package workflow

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/vocapita/vocapita/internal/platform"
)

// Opener publishes by launching the platform's app via its URL scheme,
// falling back to the web composer in the default browser. The caption itself
// stays on screen for the user to paste; most composers do not accept
// prefilled text via URL.
type Opener struct{}

// Publish opens the target platform.
func (Opener) Publish(res Result) error {
	info := platform.Lookup(res.Platform)

	if info.URLScheme != "" {
		if err := launch(info.URLScheme); err == nil {
			return nil
		}
	}

	if info.WebURL == "" {
		return fmt.Errorf("no destination for platform %q", res.Platform)
	}
	if err := launch(info.WebURL); err != nil {
		return fmt.Errorf("opening %s: %w", info.WebURL, err)
	}
	return nil
}

func launch(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	// Detach; we do not care when the launched program exits.
	go func() { _ = cmd.Wait() }()
	return nil
}
