// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

// WalkError is the I/O failure of a walk: a directory could not be listed
// or a child's metadata could not be read.
type WalkError struct {
	// Op is the failed operation ("list", "stat", "resolve").
	Op string
	// Path is the directory or file the operation was applied to.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *WalkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WalkError) Unwrap() error { return e.Err }
