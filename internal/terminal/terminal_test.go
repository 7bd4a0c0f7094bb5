// SPDX-License-Identifier: MPL-2.0

package terminal

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/deskmenu/deskmenu/internal/environ"
)

// fakeBin creates executables with the given names in a fresh directory.
func fakeBin(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestResolve_ProbesDefaultListInOrder(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("executable bit probing is POSIX only")
	}

	bin := fakeBin(t, "xterm", "kitty")
	env := environ.FromPairs([]string{"PATH=" + bin}, "/")

	r := NewResolver(Options{Env: env})
	got, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "xterm" {
		t.Errorf("Resolve() = %q, want xterm (higher priority than kitty)", got)
	}
	if r.Source() != SourceProbe {
		t.Errorf("Source() = %q, want %q", r.Source(), SourceProbe)
	}
}

func TestResolve_IgnoresNonExecutable(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("executable bit probing is POSIX only")
	}

	bin := fakeBin(t, "alacritty")
	if err := os.WriteFile(filepath.Join(bin, "xterm"), []byte("not executable"), 0o644); err != nil {
		t.Fatal(err)
	}
	env := environ.FromPairs([]string{"PATH=" + bin}, "/")

	got, err := NewResolver(Options{Env: env}).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "alacritty" {
		t.Errorf("Resolve() = %q, want alacritty", got)
	}
}

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	found := func(string) (string, error) { return "/usr/bin/xterm", nil }

	tests := []struct {
		name       string
		opts       Options
		want       string
		wantSource Source
	}{
		{
			name:       "flag beats env",
			opts:       Options{Flag: "foot", Env: environ.FromPairs([]string{"TERMINAL=kitty"}, ""), LookPath: found},
			want:       "foot",
			wantSource: SourceFlag,
		},
		{
			name:       "env used verbatim",
			opts:       Options{Env: environ.FromPairs([]string{"TERMINAL=wezterm start --"}, ""), Command: "foot", LookPath: found},
			want:       "wezterm start --",
			wantSource: SourceEnv,
		},
		{
			name:       "empty env is still an override",
			opts:       Options{Env: environ.FromPairs([]string{"TERMINAL="}, ""), LookPath: found},
			want:       "",
			wantSource: SourceEnv,
		},
		{
			name:       "config command beats probe",
			opts:       Options{Command: "foot", LookPath: found},
			want:       "foot",
			wantSource: SourceConfig,
		},
		{
			name:       "custom candidates",
			opts:       Options{Candidates: []string{"my-term"}, LookPath: found},
			want:       "my-term",
			wantSource: SourceProbe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver(tt.opts)
			got, err := r.Resolve()
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if r.Source() != tt.wantSource {
				t.Errorf("Source() = %q, want %q", r.Source(), tt.wantSource)
			}
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()

	var probed []string
	lookPath := func(name string) (string, error) {
		probed = append(probed, name)
		return "", os.ErrNotExist
	}

	_, err := NewResolver(Options{LookPath: lookPath}).Resolve()
	if !errors.Is(err, ErrNoTerminal) {
		t.Fatalf("Resolve() error = %v, want ErrNoTerminal", err)
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if len(nf.Candidates) != len(DefaultCandidates()) {
		t.Errorf("reported %d candidates, want %d", len(nf.Candidates), len(DefaultCandidates()))
	}
	if len(probed) != len(DefaultCandidates()) || probed[0] != "x-terminal-emulator" {
		t.Errorf("unexpected probe order: %v", probed)
	}
}

func TestResolve_Memoized(t *testing.T) {
	t.Parallel()

	calls := 0
	lookPath := func(name string) (string, error) {
		calls++
		if name == "st" {
			return "/usr/bin/st", nil
		}
		return "", os.ErrNotExist
	}

	r := NewResolver(Options{LookPath: lookPath})
	first, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	probes := calls

	second, err := r.Resolve()
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if first != "st" || second != "st" {
		t.Errorf("Resolve() = %q then %q, want st", first, second)
	}
	if calls != probes {
		t.Errorf("second Resolve() probed again (%d -> %d calls)", probes, calls)
	}
}

func TestNewResolver_DoesNotProbe(t *testing.T) {
	t.Parallel()

	lookPath := func(string) (string, error) {
		t.Error("LookPath must not be called before Resolve")
		return "", os.ErrNotExist
	}
	_ = NewResolver(Options{LookPath: lookPath})
}

func TestDefaultCandidates(t *testing.T) {
	t.Parallel()

	c := DefaultCandidates()
	if len(c) != 28 {
		t.Errorf("expected 28 candidates, got %d", len(c))
	}
	c[0] = "changed"
	if DefaultCandidates()[0] != "x-terminal-emulator" {
		t.Error("DefaultCandidates must return a copy")
	}
}
