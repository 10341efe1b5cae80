// Package clipboard copies text to the system clipboard via shell commands.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard command is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// IsAvailable reports whether a clipboard command exists on this system.
func IsAvailable() bool {
	_, err := clipboardArgs(runtime.GOOS)
	return err == nil
}

// Copy copies text to the system clipboard.
func Copy(text string) error {
	args, err := clipboardArgs(runtime.GOOS)
	if err != nil {
		return err
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// clipboardArgs returns the command line that writes stdin to the clipboard.
func clipboardArgs(goos string) ([]string, error) {
	var candidates [][]string
	switch goos {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "linux", "freebsd", "openbsd":
		candidates = [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	default:
		return nil, ErrClipboardUnavailable
	}

	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrClipboardUnavailable
}
