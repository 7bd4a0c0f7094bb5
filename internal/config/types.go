// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultCacheSize is the default bound of the parsed-file cache.
	DefaultCacheSize = 512
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCacheSize is returned when search.cache_size is negative.
	ErrInvalidCacheSize = errors.New("invalid cache size")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidCacheSizeError is returned when the cache size is negative.
	InvalidCacheSizeError struct {
		Value int
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Search controls root resolution and the walk.
		Search SearchConfig `json:"search" mapstructure:"search" toml:"search"`
		// Terminal controls terminal resolution.
		Terminal TerminalConfig `json:"terminal" mapstructure:"terminal" toml:"terminal"`
		// UI holds presentation settings.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
		// EnvFile is an optional dotenv overlay applied to the environment.
		EnvFile string `json:"env_file" mapstructure:"env_file" toml:"env_file,omitempty"`
	}

	// SearchConfig configures which directories are scanned and how.
	SearchConfig struct {
		// ExtraDirs are appended after the built-in and XDG roots.
		ExtraDirs []string `json:"extra_dirs" mapstructure:"extra_dirs" toml:"extra_dirs"`
		// FollowSymlinks resolves links to files and directories.
		FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" toml:"follow_symlinks"`
		// UseXDGDataDirs adds <dir>/applications for each XDG_DATA_DIRS element.
		UseXDGDataDirs bool `json:"use_xdg_data_dirs" mapstructure:"use_xdg_data_dirs" toml:"use_xdg_data_dirs"`
		// CacheSize bounds the parsed-file cache. Zero disables it.
		CacheSize int `json:"cache_size" mapstructure:"cache_size" toml:"cache_size"`
	}

	// TerminalConfig configures terminal resolution.
	TerminalConfig struct {
		// Command is used when neither --terminal nor TERMINAL is set.
		Command string `json:"command" mapstructure:"command" toml:"command"`
		// Candidates replaces the built-in probe list when non-empty.
		Candidates []string `json:"candidates" mapstructure:"candidates" toml:"candidates"`
	}

	// UIConfig configures presentation.
	UIConfig struct {
		// Verbose enables debug logging and diagnostics for dropped entries.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			ExtraDirs:      []string{},
			FollowSymlinks: true,
			UseXDGDataDirs: true,
			CacheSize:      DefaultCacheSize,
		},
		Terminal: TerminalConfig{
			Candidates: []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate reports every invalid field. Values decoded from a config file
// were already checked by the CUE schema; environment overrides were not.
func (c Config) Validate() error {
	var errs []error
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Search.CacheSize < 0 {
		errs = append(errs, &InvalidCacheSizeError{Value: c.Search.CacheSize})
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns nil if the ColorScheme is one of the defined schemes,
// or an error wrapping ErrInvalidColorScheme otherwise.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidCacheSizeError) Error() string {
	return fmt.Sprintf("invalid cache size %d (must be >= 0)", e.Value)
}

// Unwrap returns ErrInvalidCacheSize for errors.Is() compatibility.
func (e *InvalidCacheSizeError) Unwrap() error { return ErrInvalidCacheSize }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
