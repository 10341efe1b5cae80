// Package browser opens generated visualizations in a web browser.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// System selects the platform's default handler.
const System = "system"

// Opener opens files with a configured browser command.
type Opener struct {
	browser string
	goos    string
}

// NewOpener creates an opener. An empty browser means System.
func NewOpener(browser string) *Opener {
	if browser == "" {
		browser = System
	}
	return &Opener{browser: browser, goos: runtime.GOOS}
}

// Open starts the browser on path without waiting for it to exit.
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("checking file: %w", err)
	}

	cmd, err := o.command(path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func (o *Opener) command(path string) (*exec.Cmd, error) {
	if o.browser != System {
		if o.goos == "darwin" {
			return exec.Command("open", "-a", o.browser, path), nil
		}
		return exec.Command(o.browser, path), nil
	}

	switch o.goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", path), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}
