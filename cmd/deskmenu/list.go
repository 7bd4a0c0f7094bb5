// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/deskmenu/deskmenu/internal/issue"

	"github.com/spf13/cobra"
)

func newListCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print NAME=EXEC lines (the default command)",
		Long: `Print one line per visible desktop application.

Lines have the form NAME=EXEC, or NAME=TERMINAL EXEC for entries with
Terminal=true. Field codes such as %f and %U are removed from EXEC. Entries
with NoDisplay=true are omitted. When two roots contain the same desktop
file id, the first one wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, flags)
		},
	}
}

func runList(cmd *cobra.Command, app *App, flags *globalFlags) error {
	s, err := app.newSession(cmd.Context(), flags)
	if err != nil {
		return err
	}

	return failed(s.list())
}

// list scans the roots and writes the visible entries to stdout.
func (s *session) list() error {
	res, err := s.discover()
	if err != nil {
		return err
	}

	visible := res.Visible()
	if len(visible) == 0 {
		s.logger.Warn("no desktop entries found; run 'deskmenu roots' to see where deskmenu looked")
		s.app.renderIssue(issue.NoEntriesFoundId)
		return nil
	}
	return emitLines(s.app.stdout, visible, s.resolveTerminal)
}
