// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the deskmenu command-line interface.
//
// Running deskmenu without a subcommand scans the desktop entry roots and
// prints one NAME=EXEC line per visible application, the format consumed by
// dmenu-style launchers.
package cmd
