// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityInfo marks expected conditions, such as an optional root that
	// does not exist. The CLI renders them only in verbose mode.
	SeverityInfo Severity = "info"
	// SeverityWarning indicates a recoverable problem, such as an unreadable root.
	SeverityWarning Severity = "warning"

	// CodeRootNotFound reports a search root that does not exist.
	CodeRootNotFound = "root_not_found"
	// CodeRootUnreadable reports a root whose walk failed with an I/O error.
	CodeRootUnreadable = "root_unreadable"
	// CodeRootDuplicate reports a root listed more than once.
	CodeRootDuplicate = "root_duplicate"
	// CodeSymlinkCycle reports a directory symlink pointing back at an ancestor.
	CodeSymlinkCycle = "symlink_cycle"
	// CodeSymlinkDangling reports a symlink whose target does not exist.
	CodeSymlinkDangling = "symlink_dangling"
	// CodeEntryInvalid reports a desktop file dropped by validation or parsing.
	// Only produced when invalid entries are reported.
	CodeEntryInvalid = "entry_invalid"
	// CodeEntryDuplicate reports an entry dropped because its id was already
	// seen. Only produced when invalid entries are reported.
	CodeEntryDuplicate = "entry_duplicate"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a structured, non-fatal discovery event.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "root_not_found").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file or directory involved.
		Path string
		// Cause is the underlying error, when there is one.
		Cause error
	}
)
