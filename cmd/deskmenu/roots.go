// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

func newRootsCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "Print the search roots in scan order",
		Long: `Print the directories scanned for desktop entries, in the order they
are scanned, with where each one comes from. Missing directories are
marked and skipped during a scan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			d, err := s.newDiscovery()
			if err != nil {
				return failed(err)
			}

			for _, r := range d.Roots() {
				status := SuccessStyle.Render("ok")
				if _, err := os.Stat(r.Path); errors.Is(err, fs.ErrNotExist) {
					status = WarningStyle.Render("missing")
				} else if err != nil {
					status = ErrorStyle.Render("unreadable")
				}
				if _, err := fmt.Fprintf(app.stdout, "%s\t%s\t%s\n", r.Path, SubtitleStyle.Render(string(r.Origin)), status); err != nil {
					return failed(err)
				}
			}
			return nil
		},
	}
}
