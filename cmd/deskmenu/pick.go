// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/deskmenu/deskmenu/internal/tui"

	"github.com/spf13/cobra"
)

func newPickCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose an application interactively",
		Long: `Show the visible applications in a filterable list on stderr. Enter
prints the selected entry's NAME=EXEC line to stdout, exactly as list
would; Esc or Ctrl+C exits with status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.IsInteractive() {
				return failed(errors.New("pick needs an interactive terminal on stdin"))
			}

			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			res, err := s.discover()
			if err != nil {
				return failed(err)
			}

			entry, err := tui.Pick(cmd.Context(), tui.PickOptions{
				Title:   "Applications",
				Entries: res.Visible(),
				Output:  app.stderr,
			})
			switch {
			case errors.Is(err, tui.ErrCancelled):
				return &ExitError{Code: ExitFatal}
			case err != nil:
				return failed(fmt.Errorf("pick: %w", err))
			}

			term := ""
			if entry.Terminal {
				if term, err = s.resolveTerminal(); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(app.stdout, formatLine(entry, term))
			return failed(err)
		},
	}
}
