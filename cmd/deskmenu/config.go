// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deskmenu/deskmenu/internal/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the `deskmenu config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage deskmenu configuration",
		Long: `Manage deskmenu configuration.

Configuration is stored in $XDG_CONFIG_HOME/deskmenu/config.cue
(default ~/.config/deskmenu/config.cue). Any setting can be overridden
with a DESKMENU_<SECTION>_<KEY> environment variable, for example
DESKMENU_SEARCH_FOLLOW_SYMLINKS=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return failed(showConfig(app, s))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path(config.LoadOptions{ConfigFilePath: flags.configPath, Env: app.env})
			if err != nil {
				return failed(err)
			}
			_, err = fmt.Fprintln(app.stdout, path)
			return failed(err)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(config.LoadOptions{ConfigFilePath: flags.configPath, Env: app.env})
			if err != nil {
				return failed(err)
			}
			if created {
				_, err = fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), path)
			} else {
				_, err = fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Already exists:"), path)
			}
			return failed(err)
		},
	})

	var asTOML bool
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE (or TOML)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if asTOML {
				data, err := config.EncodeTOML(s.cfg)
				if err != nil {
					return failed(err)
				}
				_, err = app.stdout.Write(data)
				return failed(err)
			}
			_, err = fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return failed(err)
		},
	}
	dumpCmd.Flags().BoolVar(&asTOML, "toml", false, "encode as TOML")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(app *App, s *session) error {
	source := s.cfgPath
	if source == "" {
		source = SubtitleStyle.Render("(using defaults)")
	}

	candidates := SubtitleStyle.Render("(built-in)")
	if len(s.cfg.Terminal.Candidates) > 0 {
		candidates = strings.Join(s.cfg.Terminal.Candidates, ", ")
	}

	extraDirs := SubtitleStyle.Render("(none)")
	if len(s.cfg.Search.ExtraDirs) > 0 {
		extraDirs = strings.Join(s.cfg.Search.ExtraDirs, ", ")
	}

	rows := [][]string{
		{"search.extra_dirs", extraDirs},
		{"search.follow_symlinks", strconv.FormatBool(s.cfg.Search.FollowSymlinks)},
		{"search.use_xdg_data_dirs", strconv.FormatBool(s.cfg.Search.UseXDGDataDirs)},
		{"search.cache_size", strconv.Itoa(s.cfg.Search.CacheSize)},
		{"terminal.command", s.cfg.Terminal.Command},
		{"terminal.candidates", candidates},
		{"ui.verbose", strconv.FormatBool(s.cfg.UI.Verbose)},
		{"ui.color_scheme", s.cfg.UI.ColorScheme.String()},
		{"env_file", s.cfg.EnvFile},
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return CmdStyle
			}
			return lipgloss.NewStyle()
		}).
		Rows(rows...)

	_, err := fmt.Fprintf(app.stdout, "%s\n\n%s: %s\n%s\n",
		TitleStyle.Render("Current Configuration"),
		CmdStyle.Render("Config file"), source,
		t.String())
	return err
}
