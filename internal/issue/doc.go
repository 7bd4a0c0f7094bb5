// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Issue is the Markdown guidance the CLI renders for the
// fatal conditions it knows about.
package issue
