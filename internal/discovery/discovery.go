// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deskmenu/deskmenu/internal/desktopentry"
)

type (
	// Options configures a Discovery.
	Options struct {
		// Roots are scanned in order; earlier roots win id collisions.
		Roots []Root
		// Walker configures the per-root walk.
		Walker WalkerOptions
	}

	// Discovery scans a fixed list of roots.
	Discovery struct {
		roots  []Root
		walker *Walker
		report bool
	}

	// Result is the outcome of a scan: deduplicated entries in discovery
	// order, including hidden ones, plus non-fatal diagnostics.
	Result struct {
		Entries     []desktopentry.Entry
		Diagnostics []Diagnostic
	}

	// KnownIDs is the set of accepted desktop file ids.
	KnownIDs struct {
		ids map[string]struct{}
	}
)

// New creates a Discovery.
func New(opts Options) (*Discovery, error) {
	w, err := NewWalker(opts.Walker)
	if err != nil {
		return nil, err
	}
	return &Discovery{
		roots:  append([]Root(nil), opts.Roots...),
		walker: w,
		report: opts.Walker.ReportInvalid,
	}, nil
}

// Roots returns the configured roots in scan order.
func (d *Discovery) Roots() []Root {
	return append([]Root(nil), d.roots...)
}

// Discover walks every root in order and keeps the first entry seen for
// each id. A root that does not exist is skipped with an info diagnostic;
// any other I/O failure drops that root's whole contribution with a warning
// and the scan continues with the next root. A root listed twice (after
// path cleaning) is only walked once.
func (d *Discovery) Discover() Result {
	var res Result
	known := NewKnownIDs()
	walked := make(map[string]struct{}, len(d.roots))

	for _, root := range d.roots {
		clean := filepath.Clean(root.Path)
		if _, ok := walked[clean]; ok {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityInfo,
				Code:     CodeRootDuplicate,
				Message:  fmt.Sprintf("search root %s is listed more than once", clean),
				Path:     root.Path,
			})
			continue
		}
		walked[clean] = struct{}{}

		if _, err := os.Stat(root.Path); errors.Is(err, os.ErrNotExist) {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityInfo,
				Code:     CodeRootNotFound,
				Message:  fmt.Sprintf("skipping missing search root %s", root.Path),
				Path:     root.Path,
				Cause:    err,
			})
			continue
		}

		entries, diags, err := d.walker.Walk(root.Path)
		res.Diagnostics = append(res.Diagnostics, diags...)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeRootUnreadable,
				Message:  fmt.Sprintf("failed to scan search root %s: %v", root.Path, err),
				Path:     root.Path,
				Cause:    err,
			})
			continue
		}

		for _, e := range entries {
			if known.Insert(e.ID) {
				res.Entries = append(res.Entries, e)
				continue
			}
			if d.report {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Severity: SeverityInfo,
					Code:     CodeEntryDuplicate,
					Message:  fmt.Sprintf("dropping %s from %s: id already seen", e.ID, e.SourcePath),
					Path:     e.SourcePath,
				})
			}
		}
	}

	return res
}

// Visible returns the entries that are not hidden.
func (r Result) Visible() []desktopentry.Entry {
	out := make([]desktopentry.Entry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Skip {
			continue
		}
		out = append(out, e)
	}
	return out
}

// NewKnownIDs creates an empty id set.
func NewKnownIDs() *KnownIDs {
	return &KnownIDs{ids: make(map[string]struct{})}
}

// Insert adds id and reports whether it was absent.
func (k *KnownIDs) Insert(id string) bool {
	if _, ok := k.ids[id]; ok {
		return false
	}
	k.ids[id] = struct{}{}
	return true
}
