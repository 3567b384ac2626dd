package tlfront

import "errors"

// Common errors used throughout the tlfront package
var (
	// ErrConfigValidation is returned when configuration validation fails.
	// Configuration errors
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrConfigFileNotFound indicates an explicitly given configuration file could not be located.
	ErrConfigFileNotFound = errors.New("configuration file not found")
)
