// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive entry picker built on bubbletea and
// the bubbles list component.
package tui
