// SPDX-License-Identifier: MPL-2.0

// Package discovery finds desktop entry files under a list of search roots
// and aggregates them into a deduplicated entry list.
//
// Each root is walked depth first. Subdirectory names accumulate into a
// dash-joined namespace that prefixes the file name to form the desktop file
// id, so apps/foo/bar.desktop under root apps yields "foo-bar.desktop".
// Across roots the first entry seen for an id wins.
//
// Non-fatal problems are returned as Diagnostic values rather than written
// to stderr, so the CLI decides how to render them.
//
// File organization:
//   - roots.go: search root resolution (defaults, XDG_DATA_DIRS, extras)
//   - walker.go: recursive walk of one root (Walker)
//   - discovery.go: multi-root aggregation (Discovery, KnownIDs)
//   - diagnostic.go: Diagnostic and severity codes
//   - errors.go: WalkError
package discovery
