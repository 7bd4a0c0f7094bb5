// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/deskmenu/deskmenu/internal/desktopentry"

	lru "github.com/hashicorp/golang-lru/v2"
)

// namespaceSeparator joins directory names into the desktop file id prefix.
const namespaceSeparator = "-"

const (
	kindOther nodeKind = iota
	kindDir
	kindFile
)

type (
	nodeKind int

	// WalkerOptions configures a Walker.
	WalkerOptions struct {
		// FollowSymlinks resolves symbolic links and treats them as the file
		// or directory they point to. When false, links are ignored entirely.
		FollowSymlinks bool
		// ReportInvalid emits an entry_invalid diagnostic for every dropped
		// candidate file. Off by default: invalid files are dropped silently.
		ReportInvalid bool
		// CacheSize bounds the parsed-file cache shared by all walks of this
		// Walker, keyed by canonical file path. Zero disables caching.
		CacheSize int
	}

	// Walker enumerates desktop entries under a directory tree.
	Walker struct {
		opts  WalkerOptions
		cache *lru.Cache[string, *desktopentry.File]
	}

	// walkState accumulates one root's results. ancestors holds the
	// canonical paths of the directories on the current descent, so a
	// symlink back to any of them is reported instead of followed.
	walkState struct {
		w         *Walker
		ancestors map[string]struct{}
		entries   []desktopentry.Entry
		diags     []Diagnostic
	}
)

// NewWalker creates a Walker.
func NewWalker(opts WalkerOptions) (*Walker, error) {
	w := &Walker{opts: opts}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, *desktopentry.File](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create parse cache: %w", err)
		}
		w.cache = cache
	}
	return w, nil
}

// Walk returns the entries found under root, depth first, in directory
// listing order. Files directly in root keep their bare name as id; files
// in subdirectories get the dash-joined directory names as prefix.
//
// Candidate files that fail to parse or validate are dropped. Any failure
// to list a directory or read a child's metadata aborts the walk with a
// *WalkError and no entries.
func (w *Walker) Walk(root string) ([]desktopentry.Entry, []Diagnostic, error) {
	s := &walkState{w: w, ancestors: make(map[string]struct{})}
	if err := s.enterDir(root, ""); err != nil {
		return nil, s.diags, err
	}
	return s.entries, s.diags, nil
}

func (s *walkState) enterDir(dir, prefix string) error {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return &WalkError{Op: "resolve", Path: dir, Err: err}
	}
	if _, ok := s.ancestors[canonical]; ok {
		s.diags = append(s.diags, Diagnostic{
			Severity: SeverityInfo,
			Code:     CodeSymlinkCycle,
			Message:  fmt.Sprintf("not following %s: it leads back to %s", dir, canonical),
			Path:     dir,
		})
		return nil
	}
	s.ancestors[canonical] = struct{}{}
	defer delete(s.ancestors, canonical)

	children, err := os.ReadDir(dir)
	if err != nil {
		return &WalkError{Op: "list", Path: dir, Err: err}
	}

	for _, child := range children {
		name := child.Name()
		path := filepath.Join(dir, name)

		kind, err := s.classify(path, child)
		if err != nil {
			return err
		}

		switch kind {
		case kindDir:
			if err := s.enterDir(path, namespace(prefix, name)); err != nil {
				return err
			}
		case kindFile:
			s.visitFile(path, namespace(prefix, name))
		}
	}
	return nil
}

// classify reports what a directory child is, resolving symlinks when they
// are followed. The kernel resolves relative link targets against the
// link's own directory, however many links are chained.
func (s *walkState) classify(path string, d fs.DirEntry) (nodeKind, error) {
	mode := d.Type()
	if mode&fs.ModeSymlink != 0 {
		if !s.w.opts.FollowSymlinks {
			return kindOther, nil
		}
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.diags = append(s.diags, Diagnostic{
				Severity: SeverityInfo,
				Code:     CodeSymlinkDangling,
				Message:  fmt.Sprintf("skipping dangling symlink %s", path),
				Path:     path,
				Cause:    err,
			})
			return kindOther, nil
		case errors.Is(err, syscall.ELOOP):
			s.diags = append(s.diags, Diagnostic{
				Severity: SeverityInfo,
				Code:     CodeSymlinkCycle,
				Message:  fmt.Sprintf("skipping symlink loop %s", path),
				Path:     path,
				Cause:    err,
			})
			return kindOther, nil
		case err != nil:
			return kindOther, &WalkError{Op: "stat", Path: path, Err: err}
		}
		mode = info.Mode().Type()
	}

	switch {
	case mode.IsDir():
		return kindDir, nil
	case mode.IsRegular():
		return kindFile, nil
	default:
		return kindOther, nil
	}
}

func (s *walkState) visitFile(path, id string) {
	name := filepath.Base(path)
	if filepath.Ext(name) != desktopentry.Extension || name == desktopentry.Extension {
		return
	}

	f, err := s.w.parse(path)
	if err != nil {
		s.invalid(path, id, err)
		return
	}

	entry, err := desktopentry.Normalize(f, id, path)
	if err != nil {
		s.invalid(path, id, err)
		return
	}
	s.entries = append(s.entries, entry)
}

func (s *walkState) invalid(path, id string, err error) {
	if !s.w.opts.ReportInvalid {
		return
	}
	s.diags = append(s.diags, Diagnostic{
		Severity: SeverityInfo,
		Code:     CodeEntryInvalid,
		Message:  fmt.Sprintf("dropping %s: %v", id, err),
		Path:     path,
		Cause:    err,
	})
}

func (w *Walker) parse(path string) (*desktopentry.File, error) {
	if w.cache == nil {
		return desktopentry.ParseFile(path)
	}

	key, err := filepath.EvalSymlinks(path)
	if err != nil {
		key = path
	}
	if f, ok := w.cache.Get(key); ok {
		return f, nil
	}

	f, err := desktopentry.ParseFile(path)
	if err != nil {
		return nil, err
	}
	w.cache.Add(key, f)
	return f, nil
}

func namespace(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + namespaceSeparator + name
}
