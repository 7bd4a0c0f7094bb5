// SPDX-License-Identifier: MPL-2.0

// Package terminal resolves the terminal emulator command used to wrap
// desktop entries that declare Terminal=true.
//
// Resolution is lazy and memoized per Resolver: nothing is probed until the
// first Resolve call, and every later call returns the same answer.
package terminal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/deskmenu/deskmenu/internal/environ"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// ErrNoTerminal is returned when no override is set and none of the
// candidates can be found on the search path.
var ErrNoTerminal = errors.New("no terminal emulator found")

// defaultCandidates is probed in order. Generic wrappers and desktop
// environment terminals come first, then a long tail of standalone emulators.
var defaultCandidates = []string{
	"x-terminal-emulator",
	"mate-terminal",
	"gnome-terminal",
	"terminator",
	"xfce4-terminal",
	"urxvt",
	"rxvt",
	"termit",
	"Eterm",
	"aterm",
	"uxterm",
	"xterm",
	"roxterm",
	"termite",
	"lxterminal",
	"terminology",
	"st",
	"qterminal",
	"lilyterm",
	"tilix",
	"terminix",
	"konsole",
	"kitty",
	"guake",
	"tilda",
	"alacritty",
	"hyper",
	"wezterm",
}

type (
	// Source identifies which input produced the resolved command.
	Source string

	// LookPathFunc reports whether name resolves to an executable.
	LookPathFunc func(name string) (string, error)

	// Options configures a Resolver.
	Options struct {
		// Flag is an explicit override from the command line. Highest priority.
		Flag string
		// Env is consulted for the TERMINAL override and for PATH when probing.
		Env environ.Environ
		// Command is the configured terminal command, used when neither the
		// flag nor TERMINAL is set.
		Command string
		// Candidates replaces the built-in probe list when non-empty.
		Candidates []string
		// LookPath replaces the PATH probe. Defaults to a search of Env's PATH.
		LookPath LookPathFunc
	}

	// Resolver computes the terminal command once and caches the result.
	Resolver struct {
		opts Options

		once   sync.Once
		cmd    string
		source Source
		err    error
	}

	// NotFoundError lists the candidates that were probed without success.
	NotFoundError struct {
		Candidates []string
	}
)

const (
	// SourceFlag means the command came from the --terminal flag.
	SourceFlag Source = "flag"
	// SourceEnv means the command came from the TERMINAL variable.
	SourceEnv Source = "env"
	// SourceConfig means the command came from the configuration file.
	SourceConfig Source = "config"
	// SourceProbe means the command was found on the search path.
	SourceProbe Source = "probe"
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s (tried %d candidates)", ErrNoTerminal, len(e.Candidates))
}

// Unwrap returns ErrNoTerminal for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNoTerminal }

// DefaultCandidates returns a copy of the built-in probe list.
func DefaultCandidates() []string {
	out := make([]string, len(defaultCandidates))
	copy(out, defaultCandidates)
	return out
}

// NewResolver creates a Resolver. No probing happens until Resolve.
func NewResolver(opts Options) *Resolver {
	if len(opts.Candidates) == 0 {
		opts.Candidates = DefaultCandidates()
	}
	if opts.LookPath == nil {
		opts.LookPath = pathLookup(opts.Env)
	}
	return &Resolver{opts: opts}
}

// Resolve returns the terminal command, computing it on first use.
//
// Precedence: Flag, then TERMINAL (presence is enough, the value is used
// verbatim without checking it exists), then the configured Command, then
// the first candidate found on the search path. Probed candidates are
// returned by bare name, not absolute path.
func (r *Resolver) Resolve() (string, error) {
	r.once.Do(func() {
		r.cmd, r.source, r.err = r.resolve()
	})
	return r.cmd, r.err
}

// Source reports where the resolved command came from. It is empty until
// Resolve has succeeded.
func (r *Resolver) Source() Source {
	return r.source
}

func (r *Resolver) resolve() (string, Source, error) {
	if r.opts.Flag != "" {
		return r.opts.Flag, SourceFlag, nil
	}
	if v, ok := r.opts.Env.Lookup(environ.Terminal); ok {
		return v, SourceEnv, nil
	}
	if r.opts.Command != "" {
		return r.opts.Command, SourceConfig, nil
	}

	for _, name := range r.opts.Candidates {
		if _, err := r.opts.LookPath(name); err == nil {
			return name, SourceProbe, nil
		}
	}
	return "", "", &NotFoundError{Candidates: append([]string(nil), r.opts.Candidates...)}
}

// pathLookup searches the PATH of env, resolving relative PATH elements
// against the directory env was captured in.
func pathLookup(env environ.Environ) LookPathFunc {
	shellEnv := expand.ListEnviron(env.Pairs()...)
	return func(name string) (string, error) {
		return interp.LookPathDir(env.Dir(), shellEnv, name)
	}
}
