package leafbuild

import "errors"

// Common errors used throughout the leafbuild package
var (
	// ErrBuildFileNotFound indicates the entry build file could not be located.
	ErrBuildFileNotFound = errors.New("build file not found")
	// ErrConfigFileNotFound indicates an explicitly requested configuration file could not be located.
	ErrConfigFileNotFound = errors.New("configuration file not found")
	// ErrDiagnosticsReported indicates parsing or evaluation produced diagnostics that were already rendered.
	ErrDiagnosticsReported = errors.New("diagnostics reported")
)
