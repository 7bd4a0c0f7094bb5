// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the deskmenu command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "deskmenu",
		Short: "List desktop applications as NAME=EXEC lines",
		Long: TitleStyle.Render("deskmenu") + SubtitleStyle.Render(" - desktop entries for dmenu-style launchers") + `

deskmenu scans the freedesktop application directories for .desktop files
and prints one NAME=EXEC line per visible application. Entries that need a
terminal are prefixed with the resolved terminal emulator.

` + SubtitleStyle.Render("Search roots (first match wins):") + `
  /usr/share/applications/
  /usr/local/share/applications/
  $HOME/.local/share/applications/
  $XDG_DATA_DIRS/*/applications
  search.extra_dirs from the configuration file

` + SubtitleStyle.Render("Examples:") + `
  deskmenu                       Print NAME=EXEC lines
  deskmenu | dmenu | cut -d= -f2- | sh
  deskmenu entries --format json Show normalized records
  deskmenu roots                 Show the scanned directories
  deskmenu pick                  Choose interactively
  deskmenu watch                 Reprint the list whenever entries change`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/deskmenu/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log skipped roots and dropped entries")
	pf.StringVar(&flags.envFile, "env-file", "", "dotenv file overlaid on the environment")
	pf.StringVar(&flags.terminal, "terminal", "", "terminal command for Terminal=true entries (overrides TERMINAL)")
	pf.StringArrayVar(&flags.dirs, "dir", nil, "scan this directory instead of the default roots (repeatable)")
	pf.BoolVar(&flags.noFollowSymlink, "no-follow-symlinks", false, "ignore symbolic links while scanning")

	rootCmd.AddCommand(
		newListCommand(app, flags),
		newEntriesCommand(app, flags),
		newTerminalCommand(app, flags),
		newRootsCommand(app, flags),
		newPickCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree with args and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	rootCmd := NewRootCommand(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	// fang.WithVersion is required since fang overrides rootCmd.Version
	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// handleError prints errors through fang, except for exit errors whose
// message was already rendered by the failing command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Main is the process entry point. It returns the exit code.
func Main() int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitFatal
	}
	return app.Execute(context.Background(), os.Args[1:])
}

// failed wraps a runtime error so that it exits with ExitFatal.
func failed(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: ExitFatal, Err: err}
}
