package clipboard

import (
	"errors"
	"os/exec"
	"slices"
	"testing"
)

func withPath(t *testing.T, installed ...string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if slices.Contains(installed, name) {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestClipboardArgs(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      []string
		wantErr   bool
	}{
		{"macOS", "darwin", []string{"pbcopy"}, []string{"pbcopy"}, false},
		{"wayland preferred", "linux", []string{"xclip", "wl-copy"}, []string{"wl-copy"}, false},
		{"xclip", "linux", []string{"xclip", "xsel"}, []string{"xclip", "-selection", "clipboard"}, false},
		{"xsel fallback", "linux", []string{"xsel"}, []string{"xsel", "--clipboard", "--input"}, false},
		{"nothing installed", "linux", nil, nil, true},
		{"unsupported platform", "windows", []string{"pbcopy"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withPath(t, tt.installed...)
			got, err := clipboardArgs(tt.goos)
			if tt.wantErr {
				if !errors.Is(err, ErrClipboardUnavailable) {
					t.Errorf("err = %v, want ErrClipboardUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("clipboardArgs() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("clipboardArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCopyUnavailable(t *testing.T) {
	withPath(t)
	if IsAvailable() {
		t.Fatal("IsAvailable() = true with no commands installed")
	}
	if err := Copy("MATCH (n) RETURN n"); !errors.Is(err, ErrClipboardUnavailable) {
		t.Errorf("Copy() err = %v, want ErrClipboardUnavailable", err)
	}
}
