// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deskmenu/deskmenu/internal/config"
	"github.com/deskmenu/deskmenu/internal/discovery"
	"github.com/deskmenu/deskmenu/internal/environ"
	"github.com/deskmenu/deskmenu/internal/issue"
	"github.com/deskmenu/deskmenu/internal/terminal"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and
	// builds a session from it.
	App struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		env         environ.Environ
		lookPath    terminal.LookPathFunc
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		// Env replaces the process environment snapshot.
		Env *environ.Environ
		// LookPath replaces the PATH lookup of the terminal resolver.
		LookPath terminal.LookPathFunc
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// globalFlags holds the persistent flags shared by every subcommand.
	globalFlags struct {
		configPath      string
		verbose         bool
		envFile         string
		terminal        string
		dirs            []string
		noFollowSymlink bool
	}

	// session is the per-invocation state: the effective environment and
	// configuration, a logger, and the lazily consulted terminal resolver.
	session struct {
		app      *App
		flags    *globalFlags
		env      environ.Environ
		cfg      *config.Config
		cfgPath  string
		verbose  bool
		logger   *log.Logger
		resolver *terminal.Resolver
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &logDiagnosticRenderer{}
	}
	env := environ.FromOS()
	if deps.Env != nil {
		env = *deps.Env
	}

	return &App{
		Config:      deps.Config,
		Diagnostics: deps.Diagnostics,
		env:         env,
		lookPath:    deps.LookPath,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}, nil
}

// newSession loads configuration and applies the env-file overlay. Config
// problems are reported as warnings and defaults are used; an unreadable
// env file is fatal.
func (a *App) newSession(ctx context.Context, flags *globalFlags) (*session, error) {
	s := &session{app: a, flags: flags, env: a.env}
	s.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: "deskmenu"})
	s.setVerbose(flags.verbose)

	cfg, cfgPath, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		Env:            a.env,
	})
	if err != nil {
		// Without HOME there is no default config location; commands that
		// need HOME fail on their own.
		if flags.configPath != "" || !errors.Is(err, environ.ErrHomeNotSet) {
			s.logger.Warn(formatErrorForDisplay(err, flags.verbose))
			var ae *issue.ActionableError
			if errors.As(err, &ae) {
				a.renderIssue(ae.Issue)
			}
		}
		cfg = config.DefaultConfig()
		cfgPath = ""
	}
	s.cfg = cfg
	s.cfgPath = cfgPath
	s.setVerbose(flags.verbose || cfg.UI.Verbose)
	applyColorScheme(cfg.UI.ColorScheme)

	envFile := flags.envFile
	if envFile == "" && cfg.EnvFile != "" {
		if envFile, err = a.env.ExpandPath(cfg.EnvFile); err != nil {
			return nil, a.fatal(issue.NewErrorContext().
				WithOperation("read env file").
				WithResource(cfg.EnvFile).
				WithIssue(issue.EnvFileFailedId).
				Wrap(err).
				Build(), s.verbose)
		}
	}
	if envFile != "" {
		overlaid, err := s.env.WithDotenv(envFile)
		if err != nil {
			return nil, a.fatal(issue.NewErrorContext().
				WithOperation("read env file").
				WithResource(envFile).
				WithSuggestion("Check that the file exists and is readable").
				WithIssue(issue.EnvFileFailedId).
				Wrap(err).
				Build(), s.verbose)
		}
		s.env = overlaid
	}

	s.resolver = terminal.NewResolver(terminal.Options{
		Flag:       flags.terminal,
		Env:        s.env,
		Command:    cfg.Terminal.Command,
		Candidates: cfg.Terminal.Candidates,
		LookPath:   a.lookPath,
	})

	return s, nil
}

func (s *session) setVerbose(v bool) {
	s.verbose = v
	if v {
		s.logger.SetLevel(log.DebugLevel)
		return
	}
	s.logger.SetLevel(log.WarnLevel)
}

// roots resolves the search roots. A missing HOME is fatal.
func (s *session) roots() ([]discovery.Root, error) {
	roots, err := discovery.ResolveRoots(s.env, discovery.RootOptions{
		Dirs:           s.flags.dirs,
		UseXDGDataDirs: s.cfg.Search.UseXDGDataDirs,
		ExtraDirs:      s.cfg.Search.ExtraDirs,
	})
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("resolve search roots").
			Wrap(err)
		if errors.Is(err, environ.ErrHomeNotSet) {
			ctx = ctx.WithSuggestion("Set HOME to your home directory").
				WithIssue(issue.HomeNotSetId)
		}
		return nil, s.app.fatal(ctx.Build(), s.verbose)
	}
	return roots, nil
}

// newDiscovery builds a scanner over the resolved roots with the walk
// options of this session. Every call gets its own parse cache.
func (s *session) newDiscovery() (*discovery.Discovery, error) {
	roots, err := s.roots()
	if err != nil {
		return nil, err
	}

	d, err := discovery.New(discovery.Options{
		Roots: roots,
		Walker: discovery.WalkerOptions{
			FollowSymlinks: s.followSymlinks(),
			ReportInvalid:  s.verbose,
			CacheSize:      s.cfg.Search.CacheSize,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create discovery: %w", err)
	}
	return d, nil
}

func (s *session) followSymlinks() bool {
	return s.cfg.Search.FollowSymlinks && !s.flags.noFollowSymlink
}

// discover scans every root and renders the diagnostics.
func (s *session) discover() (discovery.Result, error) {
	d, err := s.newDiscovery()
	if err != nil {
		return discovery.Result{}, err
	}

	res := d.Discover()
	s.app.Diagnostics.Render(s.logger, res.Diagnostics)
	s.logger.Debug("scan complete", "roots", len(d.Roots()), "entries", len(res.Entries))
	return res, nil
}

// resolveTerminal forces terminal resolution. Failure is fatal.
func (s *session) resolveTerminal() (string, error) {
	cmd, err := s.resolver.Resolve()
	if err != nil {
		return "", s.app.fatal(issue.NewErrorContext().
			WithOperation("resolve terminal").
			WithSuggestion("Set TERMINAL or pass --terminal").
			WithSuggestion("Set terminal.command in the configuration file").
			WithIssue(issue.NoTerminalFoundId).
			Wrap(err).
			Build(), s.verbose)
	}
	s.logger.Debug("resolved terminal", "command", cmd, "source", s.resolver.Source())
	return cmd, nil
}

// fatal renders ae to stderr, followed by its issue guidance, and returns
// an already-reported ExitError.
func (a *App) fatal(ae *issue.ActionableError, verbose bool) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+ae.Format(verbose))
	a.renderIssue(ae.Issue)
	return &ExitError{Code: ExitFatal}
}

// renderIssue writes the catalog guidance for id when stderr is a terminal.
func (a *App) renderIssue(id issue.Id) {
	i := issue.Get(id)
	if i == nil || !isTerminal(a.stderr) {
		return
	}
	if rendered, err := i.Render(glamourStyle()); err == nil {
		fmt.Fprint(a.stderr, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// applyColorScheme pins lipgloss to a background when one is configured.
func applyColorScheme(cs config.ColorScheme) {
	switch cs {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

func glamourStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
