// SPDX-License-Identifier: MPL-2.0

package desktopentry

import (
	"errors"
	"fmt"
)

// ErrInvalidEntry is the sentinel wrapped by every validation failure
// returned from Normalize. Callers that only need to distinguish
// "malformed or non-application entry" from I/O faults match on it.
var ErrInvalidEntry = errors.New("invalid desktop entry")

type (
	// NotAnApplicationError is returned when the Type key is missing or is
	// anything other than "Application" (e.g. "Link" or "Directory").
	NotAnApplicationError struct {
		// Type is the raw Type value; empty when the key is absent.
		Type string
	}

	// MissingFieldError is returned when a required key is absent.
	MissingFieldError struct {
		Field string
	}
)

// Error implements the error interface.
func (e *NotAnApplicationError) Error() string {
	if e.Type == "" {
		return "desktop entry is not an application: missing Type key"
	}
	return fmt.Sprintf("desktop entry is not an application: Type=%s", e.Type)
}

// Unwrap returns ErrInvalidEntry for errors.Is() compatibility.
func (e *NotAnApplicationError) Unwrap() error { return ErrInvalidEntry }

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("desktop entry is missing the %s key", e.Field)
}

// Unwrap returns ErrInvalidEntry for errors.Is() compatibility.
func (e *MissingFieldError) Unwrap() error { return ErrInvalidEntry }
