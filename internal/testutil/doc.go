// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include filesystem fixtures for desktop entry trees
// (MustWriteFile, WriteDesktopEntry, MustSymlink, MustWriteExecutable) and
// environment variable management (MustSetenv, MustUnsetenv).
package testutil
