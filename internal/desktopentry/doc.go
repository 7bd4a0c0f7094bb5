// SPDX-License-Identifier: MPL-2.0

// Package desktopentry parses freedesktop.org desktop entry files and
// normalizes them into launcher records.
//
// Parsing is delegated to an INI reader configured for the desktop entry
// dialect (no inline comments, no line continuations, quotes preserved).
// Normalization validates the [Desktop Entry] group, strips positional field
// codes from the Exec line and maps the Terminal and NoDisplay flags.
//
// File organization:
//   - parse.go: File, ParseFile and ParseBytes
//   - entry.go: Entry and Normalize
//   - fieldcode.go: field code stripping
//   - errors.go: validation error types
package desktopentry
