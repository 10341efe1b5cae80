package config

import (
	"os"
	"path/filepath"
)

const (
	// StateDir is the directory name under XDG_DATA_HOME.
	StateDir = "agv"
	// StateFile is the SQLite file holding label styles and query history.
	StateFile = "state.db"
)

// DefaultStatePath returns the default state database path.
// Respects XDG_DATA_HOME, defaults to ~/.local/share/agv/state.db.
func DefaultStatePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(StateDir, StateFile)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, StateDir, StateFile)
}

// PreambleFor returns the configured preamble, or the AGE default for the
// PostgreSQL drivers when none is configured.
func (c *GlobalConfig) PreambleFor(defaults []string) []string {
	if len(c.Preamble) > 0 {
		return c.Preamble
	}
	if c.IsPostgres() {
		return defaults
	}
	return nil
}

// IsPostgres reports whether the configured driver talks to PostgreSQL.
func (c *GlobalConfig) IsPostgres() bool {
	switch c.Driver {
	case "pgx", "pgx/v5", "postgres":
		return true
	default:
		return false
	}
}
