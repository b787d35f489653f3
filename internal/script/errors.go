package script

import "errors"

// Errors for script execution.
var (
	// ErrEngineClosed is returned when running on a closed engine.
	ErrEngineClosed = errors.New("script engine is closed")

	// ErrExecutionTimeout is returned when a script runs past its timeout.
	ErrExecutionTimeout = errors.New("script execution timeout")
)
