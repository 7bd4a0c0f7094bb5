// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a scan when desktop files under the search roots
// change.
//
// Every existing directory below each root is registered with fsnotify.
// Events are filtered by glob patterns relative to the root they occurred
// in, then coalesced over a debounce window so the callback fires once
// with the full set of changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces bursts such as a package manager installing
// many entries at once.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are never reported, whatever the patterns say.
var defaultIgnores = []string{
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.#*",
	"**/.goutputstream-*",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the directories to watch recursively. Roots that do not
		// exist are skipped; they are not picked up if created later.
		Roots []string

		// Patterns are doublestar globs, relative to the root, selecting the
		// files that trigger callbacks. Empty means every non-ignored file.
		Patterns []string

		// Ignore adds doublestar globs to the built-in ignore list.
		Ignore []string

		// FollowSymlinks also registers directories reached through
		// symbolic links. Each canonical directory is watched once.
		FollowSymlinks bool

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values use defaultDebounce.
		Debounce time.Duration

		// OnChange receives the deduplicated absolute paths that changed.
		OnChange func(ctx context.Context, changed []string) error

		// StopOnError makes Run return the first OnChange error instead of
		// printing it to Stderr and continuing.
		StopOnError bool

		// Stderr receives non-fatal watcher messages. Defaults to os.Stderr.
		Stderr io.Writer
	}

	// Watcher monitors the search roots and fires a debounced callback.
	// Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		stderr   io.Writer
		debounce time.Duration
		started  atomic.Bool

		mu sync.Mutex
		// dirs maps each watched directory, as registered, to its root.
		dirs map[string]watchedDir
		// seen holds the canonical paths already registered.
		seen map[string]struct{}
	}

	watchedDir struct {
		root      string
		canonical string
	}
)

// New creates a Watcher and registers every directory under cfg.Roots.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		stderr:   stderr,
		debounce: debounce,
		dirs:     make(map[string]watchedDir),
		seen:     make(map[string]struct{}),
	}

	for _, root := range cfg.Roots {
		if err := w.addTree(root, root); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
			}
			return nil, err
		}
	}

	return w, nil
}

// Dirs returns the watched directories, sorted.
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.dirs))
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks or,
// with StopOnError, when a callback fails.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
		stopped = make(chan error, 1)
	)

	// fire drains the pending set. A callback still running when the timer
	// fires again reschedules instead of overlapping.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				if w.cfg.StopOnError {
					select {
					case stopped <- err:
					default:
					}
					return
				}
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-stopped:
			return err

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.relevant(evt) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// Close releases the watcher without running it. Run closes it on return.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant reports whether evt should trigger a rescan. Newly created
// directories are registered on the way; a watched directory that goes
// away always counts, since its entries vanish with it.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	w.mu.Lock()
	parent, ok := w.dirs[filepath.Dir(evt.Name)]
	self, isDir := w.dirs[evt.Name]
	if isDir && (evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename)) {
		delete(w.dirs, evt.Name)
		delete(w.seen, self.canonical)
	}
	w.mu.Unlock()
	if isDir {
		return true
	}
	if !ok {
		return false
	}
	root := parent.root

	rel, err := filepath.Rel(root, evt.Name)
	if err != nil {
		return false
	}
	if w.isIgnored(rel) {
		return false
	}

	if evt.Has(fsnotify.Create) {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.addTree(evt.Name, root); err != nil {
				fmt.Fprintf(w.stderr, "%v\n", err)
			}
			return true
		}
	}
	return w.matchesPatterns(rel)
}

// addTree registers dir and every directory below it. Missing and
// unreadable directories are skipped.
func (w *Watcher) addTree(dir, root string) error {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		fmt.Fprintf(w.stderr, "watch: skipping inaccessible path %q: %v\n", dir, err)
		return nil
	}

	w.mu.Lock()
	if _, ok := w.seen[canonical]; ok {
		w.mu.Unlock()
		return nil
	}
	w.seen[canonical] = struct{}{}
	w.mu.Unlock()

	if err := w.fsw.Add(dir); err != nil {
		w.mu.Lock()
		delete(w.seen, canonical)
		w.mu.Unlock()
		if isFatalFsnotifyError(err) {
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
		fmt.Fprintf(w.stderr, "watch: skipping %q: %v\n", dir, err)
		return nil
	}
	w.mu.Lock()
	w.dirs[dir] = watchedDir{root: root, canonical: canonical}
	w.mu.Unlock()

	children, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(w.stderr, "watch: skipping inaccessible path %q: %v\n", dir, err)
		return nil
	}
	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		switch {
		case child.IsDir():
		case child.Type()&fs.ModeSymlink != 0 && w.cfg.FollowSymlinks:
			info, err := os.Stat(path)
			if err != nil || !info.IsDir() {
				continue
			}
		default:
			continue
		}
		if err := w.addTree(path, root); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

// matchesPatterns reports whether rel matches a watch pattern. No
// patterns means everything matches.
func (w *Watcher) matchesPatterns(rel string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	return matchAny(w.cfg.Patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
