// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/deskmenu/deskmenu/internal/desktopentry"
	"github.com/deskmenu/deskmenu/internal/watch"

	"github.com/spf13/cobra"
)

// clearScreen clears the terminal and homes the cursor.
const clearScreen = "\033[2J\033[H"

func newWatchCommand(app *App, flags *globalFlags) *cobra.Command {
	var (
		debounce time.Duration
		clearOut bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the list whenever desktop files change",
		Long: `Print the NAME=EXEC list, then watch the search roots and print a
fresh list after every change to a desktop file. Each reprint is a full
re-scan. Roots that do not exist at startup are not watched. A re-scan
that fails the way a one-shot list would fails the watch too.

Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return failed(s.watch(cmd.Context(), debounce, clearOut))
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before re-scanning")
	cmd.Flags().BoolVar(&clearOut, "clear", false, "clear the screen before each reprint (terminal output only)")

	return cmd
}

// watch prints the list once, then again after every debounced change
// until ctx is cancelled.
func (s *session) watch(ctx context.Context, debounce time.Duration, clearOut bool) error {
	d, err := s.newDiscovery()
	if err != nil {
		return err
	}
	roots := d.Roots()
	paths := make([]string, 0, len(roots))
	for _, r := range roots {
		paths = append(paths, r.Path)
	}

	w, err := watch.New(watch.Config{
		Roots:          paths,
		Patterns:       []string{"**/*" + desktopentry.Extension},
		FollowSymlinks: s.followSymlinks(),
		Debounce:       debounce,
		Stderr:         s.app.stderr,
		StopOnError:    true,
		OnChange: func(_ context.Context, changed []string) error {
			s.logger.Debug("rescanning", "changed", len(changed))
			if clearOut && isTerminal(s.app.stdout) {
				fmt.Fprint(s.app.stdout, clearScreen)
			}
			return s.list()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	s.logger.Debug("watching", "dirs", len(w.Dirs()))

	// Registered before the first scan so no change slips between them.
	if err := s.list(); err != nil {
		_ = w.Close()
		return err
	}

	return w.Run(ctx)
}
