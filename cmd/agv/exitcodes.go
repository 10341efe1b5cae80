package main

import (
	"errors"

	"github.com/matsen/agviewer/internal/config"
	"github.com/matsen/agviewer/internal/cypher"
	"github.com/matsen/agviewer/internal/result"
	"github.com/matsen/agviewer/internal/session"
)

// Exit codes
const (
	ExitSuccess        = 0 // Success
	ExitError          = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError    = 2 // Configuration error (no graph selected, no DSN)
	ExitDataError      = 3 // Data error (missing query, malformed result)
	ExitExecutionError = 4 // The database rejected or failed the statement
)

var errNoConnection = errors.New("command has no database connection")

// exitCodeFor maps an error to the exit code reported for it.
func exitCodeFor(err error) int {
	var execErr *session.ExecutionError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, cypher.ErrNoGraphSelected), errors.Is(err, config.ErrDSNNotConfigured):
		return ExitConfigError
	case errors.Is(err, cypher.ErrMissingQuery), errors.Is(err, result.ErrMalformedResult):
		return ExitDataError
	case errors.As(err, &execErr):
		return ExitExecutionError
	default:
		return ExitError
	}
}
