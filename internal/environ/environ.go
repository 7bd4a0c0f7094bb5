// SPDX-License-Identifier: MPL-2.0

// Package environ captures the process environment once and serves the
// variables deskmenu depends on (HOME, XDG_DATA_DIRS, TERMINAL, PATH).
//
// The snapshot can be overlaid with a dotenv file so launcher configs that
// run deskmenu from a minimal session can supply the variables explicitly.
package environ

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/exp/maps"
	"mvdan.cc/sh/v3/shell"
)

const (
	// Home is the required home directory variable.
	Home = "HOME"
	// XDGDataDirs lists additional data directories, separated by the
	// platform path list separator.
	XDGDataDirs = "XDG_DATA_DIRS"
	// XDGConfigHome overrides the base directory for user configuration.
	XDGConfigHome = "XDG_CONFIG_HOME"
	// Terminal overrides terminal emulator detection when present.
	Terminal = "TERMINAL"
	// Path is the executable search path.
	Path = "PATH"
)

// ErrHomeNotSet is returned when HOME is missing or empty.
var ErrHomeNotSet = errors.New("HOME is not set")

// Environ is an immutable snapshot of environment variables plus the
// working directory at capture time.
type Environ struct {
	vars map[string]string
	cwd  string
}

// FromOS captures the current process environment.
func FromOS() Environ {
	cwd, _ := os.Getwd()
	return FromPairs(os.Environ(), cwd)
}

// FromPairs builds an Environ from KEY=VALUE pairs. Pairs without '=' are
// ignored; later pairs override earlier ones.
func FromPairs(pairs []string, cwd string) Environ {
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return Environ{vars: vars, cwd: cwd}
}

// Lookup returns the value of key and whether it is present. A variable set
// to the empty string is present.
func (e Environ) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Get returns the value of key, or "" when absent.
func (e Environ) Get(key string) string {
	return e.vars[key]
}

// Dir returns the working directory recorded at capture time.
func (e Environ) Dir() string {
	return e.cwd
}

// HomeDir returns HOME. An empty HOME is treated as unset.
func (e Environ) HomeDir() (string, error) {
	home := e.vars[Home]
	if home == "" {
		return "", ErrHomeNotSet
	}
	return home, nil
}

// DataDirs returns the non-empty elements of XDG_DATA_DIRS in order.
func (e Environ) DataDirs() []string {
	raw := e.vars[XDGDataDirs]
	if raw == "" {
		return nil
	}
	var dirs []string
	for _, d := range filepath.SplitList(raw) {
		if d == "" {
			continue
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// Pairs returns the snapshot as sorted KEY=VALUE pairs.
func (e Environ) Pairs() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+e.vars[k])
	}
	return pairs
}

// With returns a copy of e with key set to value.
func (e Environ) With(key, value string) Environ {
	vars := maps.Clone(e.vars)
	if vars == nil {
		vars = make(map[string]string, 1)
	}
	vars[key] = value
	return Environ{vars: vars, cwd: e.cwd}
}

// WithDotenv returns a copy of e overlaid with the variables defined in the
// dotenv file at path. File values win over the captured environment.
func (e Environ) WithDotenv(path string) (Environ, error) {
	overlay, err := godotenv.Read(path)
	if err != nil {
		return e, fmt.Errorf("read env file %s: %w", path, err)
	}

	vars := maps.Clone(e.vars)
	if vars == nil {
		vars = make(map[string]string, len(overlay))
	}
	for k, v := range overlay {
		vars[k] = v
	}
	return Environ{vars: vars, cwd: e.cwd}, nil
}

// ExpandPath expands a leading "~" and $VAR / ${VAR} references in p
// against the snapshot, then makes relative results absolute against the
// captured working directory.
func (e Environ) ExpandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := e.HomeDir()
		if err != nil {
			return "", err
		}
		p = home + p[1:]
	}

	expanded, err := shell.Expand(p, func(name string) string { return e.vars[name] })
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	if expanded == "" {
		return "", nil
	}
	if !filepath.IsAbs(expanded) && e.cwd != "" {
		expanded = filepath.Join(e.cwd, expanded)
	}
	return filepath.Clean(expanded), nil
}
