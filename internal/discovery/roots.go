// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"

	"github.com/deskmenu/deskmenu/internal/environ"
)

const (
	// OriginDefault marks a built-in system or user root.
	OriginDefault Origin = "default"
	// OriginXDG marks a root derived from XDG_DATA_DIRS.
	OriginXDG Origin = "xdg"
	// OriginConfig marks a root from the search.extra_dirs setting.
	OriginConfig Origin = "config"
	// OriginFlag marks a root given on the command line.
	OriginFlag Origin = "flag"

	// applicationsDir is the subdirectory of a data dir holding desktop files.
	applicationsDir = "applications"
)

// systemRoots are scanned before the user's own applications directory.
var systemRoots = []string{
	"/usr/share/applications/",
	"/usr/local/share/applications/",
}

type (
	// Origin records why a root is part of the scan.
	Origin string

	// Root is one search root, in scan order.
	Root struct {
		Path   string
		Origin Origin
	}

	// RootOptions controls root resolution.
	RootOptions struct {
		// Dirs, when non-empty, replaces the default and XDG roots.
		Dirs []string
		// UseXDGDataDirs appends <dir>/applications for every XDG_DATA_DIRS element.
		UseXDGDataDirs bool
		// ExtraDirs are appended last. Entries are expanded against the
		// environment ("~", $VAR).
		ExtraDirs []string
	}
)

// ResolveRoots builds the ordered root list:
//
//  1. /usr/share/applications/
//  2. /usr/local/share/applications/
//  3. $HOME/.local/share/applications/
//  4. <each XDG_DATA_DIRS element>/applications
//  5. configured extra directories
//
// Earlier roots win id collisions. HOME is required.
func ResolveRoots(env environ.Environ, opts RootOptions) ([]Root, error) {
	home, err := env.HomeDir()
	if err != nil {
		return nil, err
	}

	var roots []Root
	if len(opts.Dirs) > 0 {
		for _, d := range opts.Dirs {
			p, err := env.ExpandPath(d)
			if err != nil {
				return nil, err
			}
			if p == "" {
				continue
			}
			roots = append(roots, Root{Path: p, Origin: OriginFlag})
		}
	} else {
		for _, d := range systemRoots {
			roots = append(roots, Root{Path: d, Origin: OriginDefault})
		}
		roots = append(roots, Root{
			Path:   filepath.Join(home, ".local", "share", applicationsDir) + string(filepath.Separator),
			Origin: OriginDefault,
		})

		if opts.UseXDGDataDirs {
			for _, d := range env.DataDirs() {
				roots = append(roots, Root{Path: filepath.Join(d, applicationsDir), Origin: OriginXDG})
			}
		}
	}

	for _, d := range opts.ExtraDirs {
		p, err := env.ExpandPath(d)
		if err != nil {
			return nil, err
		}
		if p == "" {
			continue
		}
		roots = append(roots, Root{Path: p, Origin: OriginConfig})
	}

	return roots, nil
}
