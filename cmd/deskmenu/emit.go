// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/deskmenu/deskmenu/internal/desktopentry"
)

// formatLine renders one output line without the trailing newline:
// NAME=EXEC, or NAME=TERM EXEC for terminal entries. Values are written
// verbatim.
func formatLine(e desktopentry.Entry, term string) string {
	if e.Terminal {
		return e.Name + "=" + term + " " + e.Exec
	}
	return e.Name + "=" + e.Exec
}

// emitLines writes one line per entry in order. resolveTerm is called at
// most once, when the first terminal entry is reached. If it fails,
// nothing after that point is written and its error is returned.
func emitLines(w io.Writer, entries []desktopentry.Entry, resolveTerm func() (string, error)) error {
	bw := bufio.NewWriter(w)

	var (
		term     string
		resolved bool
	)
	for _, e := range entries {
		if e.Terminal && !resolved {
			t, err := resolveTerm()
			if err != nil {
				// Lines already produced are still flushed.
				if ferr := bw.Flush(); ferr != nil {
					return fmt.Errorf("write output: %w", ferr)
				}
				return err
			}
			term, resolved = t, true
		}
		if _, err := fmt.Fprintln(bw, formatLine(e, term)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
