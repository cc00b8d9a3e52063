package config

import (
	"errors"
	"fmt"
)

// Errors returned by Load and SelectProfile.
var (
	// ErrNotFound indicates the configuration file doesn't exist.
	ErrNotFound = errors.New("no config file")

	// ErrMalformed indicates the document could not be decoded.
	ErrMalformed = errors.New("malformed config")

	// ErrNoActions indicates the action table is missing or empty.
	ErrNoActions = errors.New("no actions defined")

	// ErrNoProfiles indicates the document has no profiles section.
	ErrNoProfiles = errors.New("no profiles defined")

	// ErrProfileNotFound indicates the selected profile doesn't exist.
	ErrProfileNotFound = errors.New("no profile defined")

	// ErrEmptyProfile indicates the profile maps neither encoders nor buttons.
	ErrEmptyProfile = errors.New("profile has no encoders or buttons")

	// ErrNoDevice indicates midi_device is not set.
	ErrNoDevice = errors.New("no midi device configured")
)

// ConfigError is returned for every configuration failure. All of them
// are fatal at startup.
type ConfigError struct {
	Path    string
	Profile string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Profile != "" {
		return fmt.Sprintf("%s: profile %q: %v", e.Path, e.Profile, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
