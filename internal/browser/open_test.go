package browser

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name    string
		browser string
		goos    string
		want    []string
		wantErr bool
	}{
		{"linux system", "", "linux", []string{"xdg-open", "g.html"}, false},
		{"darwin system", "system", "darwin", []string{"open", "g.html"}, false},
		{"windows system", "", "windows", []string{"rundll32", "url.dll,FileProtocolHandler", "g.html"}, false},
		{"linux custom", "firefox", "linux", []string{"firefox", "g.html"}, false},
		{"darwin custom", "Safari", "darwin", []string{"open", "-a", "Safari", "g.html"}, false},
		{"unsupported", "", "plan9", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOpener(tt.browser)
			o.goos = tt.goos

			cmd, err := o.command("g.html")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("command() error = %v", err)
			}
			if !slices.Equal(cmd.Args, tt.want) {
				t.Errorf("command() args = %v, want %v", cmd.Args, tt.want)
			}
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	err := NewOpener("").Open(filepath.Join(t.TempDir(), "missing.html"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Open() err = %v, want does not exist", err)
	}
}
