// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/deskmenu/deskmenu/internal/desktopentry"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
)

// outputFormat is the --format flag of the entries command.
type outputFormat string

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string { return string(*f) }

// Set rejects anything but the known formats, so a bad value is a usage error.
func (f *outputFormat) Set(v string) error {
	switch outputFormat(v) {
	case formatTable, formatJSON:
		*f = outputFormat(v)
		return nil
	default:
		return fmt.Errorf("must be %q or %q", formatTable, formatJSON)
	}
}

func (f *outputFormat) Type() string { return "format" }

func newEntriesCommand(app *App, flags *globalFlags) *cobra.Command {
	var (
		format = formatTable
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Show normalized desktop entries",
		Long: `Show the normalized records behind the list output: id, name, exec,
terminal and hidden flags, and the file each entry was read from.

The terminal emulator is never resolved by this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			res, err := s.discover()
			if err != nil {
				return failed(err)
			}

			entries := res.Entries
			if !all {
				entries = res.Visible()
			}

			if format == formatJSON {
				return failed(writeEntriesJSON(app, entries))
			}
			_, err = fmt.Fprintln(app.stdout, renderEntriesTable(entries))
			return failed(err)
		},
	}

	cmd.Flags().Var(&format, "format", "output format (table, json)")
	cmd.Flags().BoolVar(&all, "all", false, "include entries hidden with NoDisplay=true")

	return cmd
}

func writeEntriesJSON(app *App, entries []desktopentry.Entry) error {
	if entries == nil {
		entries = []desktopentry.Entry{}
	}
	enc := json.NewEncoder(app.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	return nil
}

func renderEntriesTable(entries []desktopentry.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.Name,
			e.Exec,
			strconv.FormatBool(e.Terminal),
			strconv.FormatBool(e.Skip),
			e.SourcePath,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("ID", "NAME", "EXEC", "TERMINAL", "HIDDEN", "SOURCE").
		Rows(rows...).
		String()
}
