// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTerminalCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "terminal",
		Short: "Print the terminal command used for Terminal=true entries",
		Long: `Print the terminal command used for Terminal=true entries.

Precedence: --terminal, then TERMINAL (used verbatim when set), then
terminal.command from the configuration file, then the first known terminal
emulator found on PATH. Fails when none is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			term, err := s.resolveTerminal()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(app.stdout, term)
			return failed(err)
		},
	}
}
