// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deskmenu/deskmenu/internal/config"
	"github.com/deskmenu/deskmenu/internal/discovery"
	"github.com/deskmenu/deskmenu/internal/environ"
	"github.com/deskmenu/deskmenu/internal/testutil"

	"github.com/charmbracelet/log"
)

type (
	testApp struct {
		app    *App
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}

	stubConfigProvider struct {
		cfg *config.Config
		err error
	}

	recordingRenderer struct {
		diags []discovery.Diagnostic
	}
)

func (p *stubConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if p.err != nil {
		return nil, "", p.err
	}
	return p.cfg, "", nil
}

func (r *recordingRenderer) Render(_ *log.Logger, diags []discovery.Diagnostic) {
	r.diags = append(r.diags, diags...)
}

// newTestApp builds an App over an isolated environment. found lists the
// commands the fake PATH lookup reports as installed.
func newTestApp(t *testing.T, deps Dependencies, pairs []string, found ...string) *testApp {
	t.Helper()

	home := t.TempDir()
	env := environ.FromPairs(append([]string{"HOME=" + home}, pairs...), home)

	ta := &testApp{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	deps.Env = &env
	deps.Stdout = ta.stdout
	deps.Stderr = ta.stderr
	deps.LookPath = func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return filepath.Join("/usr/bin", name), nil
			}
		}
		return "", exec.ErrNotFound
	}

	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	ta.app = app
	return ta
}

func (ta *testApp) run(args ...string) int {
	return ta.app.Execute(context.Background(), args)
}

func TestExecute_ListDefault(t *testing.T) {
	apps := t.TempDir()
	testutil.WriteDesktopEntry(t, apps, "editor.desktop", "Editor", "editor %f")
	testutil.WriteDesktopEntry(t, apps, "top.desktop", "Top", "htop", "Terminal", "true")
	testutil.WriteDesktopEntry(t, apps, "hidden.desktop", "Hidden", "hidden", "NoDisplay", "true")

	ta := newTestApp(t, Dependencies{}, nil, "gnome-terminal")

	if code := ta.run("--dir", apps); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, ta.stderr)
	}
	if got, want := ta.stdout.String(), "Editor=editor \nTop=gnome-terminal htop\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestExecute_ListEmptyWarns(t *testing.T) {
	apps := t.TempDir()
	testutil.WriteDesktopEntry(t, apps, "hidden.desktop", "Hidden", "hidden", "NoDisplay", "true")

	ta := newTestApp(t, Dependencies{}, nil)

	if code := ta.run("--dir", apps); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, ta.stderr)
	}
	if ta.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", ta.stdout)
	}
	if !strings.Contains(ta.stderr.String(), "no desktop entries found") {
		t.Errorf("stderr = %q, want empty-list warning", ta.stderr)
	}
}

func TestExecute_NoTerminalIsFatal(t *testing.T) {
	apps := t.TempDir()
	testutil.WriteDesktopEntry(t, apps, "a.desktop", "A", "a")
	testutil.WriteDesktopEntry(t, apps, "b.desktop", "B", "b", "Terminal", "true")

	ta := newTestApp(t, Dependencies{}, nil)

	if code := ta.run("--dir", apps); code != ExitFatal {
		t.Fatalf("exit code = %d, want %d", code, ExitFatal)
	}
	if got, want := ta.stdout.String(), "A=a\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if !strings.Contains(ta.stderr.String(), "no terminal emulator found") {
		t.Errorf("stderr = %q, want terminal error", ta.stderr)
	}
	if n := strings.Count(ta.stderr.String(), "failed to resolve terminal"); n != 1 {
		t.Errorf("error printed %d times, want 1", n)
	}
}

func TestExecute_TerminalEnvBeatsPathSearch(t *testing.T) {
	ta := newTestApp(t, Dependencies{}, []string{"TERMINAL=foot -e"}, "xterm")

	if code := ta.run("terminal"); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, ta.stderr)
	}
	if got := strings.TrimSpace(ta.stdout.String()); got != "foot -e" {
		t.Errorf("terminal = %q, want %q", got, "foot -e")
	}
}

func TestExecute_ConfigErrorFallsBackToDefaults(t *testing.T) {
	apps := t.TempDir()
	testutil.WriteDesktopEntry(t, apps, "a.desktop", "A", "a")

	ta := newTestApp(t, Dependencies{
		Config: &stubConfigProvider{err: errors.New("broken config")},
	}, nil)

	if code := ta.run("--dir", apps); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, ta.stderr)
	}
	if !strings.Contains(ta.stderr.String(), "broken config") {
		t.Errorf("stderr = %q, want config warning", ta.stderr)
	}
	if got, want := ta.stdout.String(), "A=a\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestExecute_ConfiguredTerminalCommand(t *testing.T) {
	apps := t.TempDir()
	testutil.WriteDesktopEntry(t, apps, "top.desktop", "Top", "htop", "Terminal", "true")

	cfg := config.DefaultConfig()
	cfg.Terminal.Command = "wezterm start --"
	ta := newTestApp(t, Dependencies{Config: &stubConfigProvider{cfg: cfg}}, nil)

	if code := ta.run("--dir", apps); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, ta.stderr)
	}
	if got, want := ta.stdout.String(), "Top=wezterm start -- htop\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestExecute_DiagnosticsRendered(t *testing.T) {
	apps := t.TempDir()
	testutil.WriteDesktopEntry(t, apps, "a.desktop", "A", "a")
	missing := filepath.Join(t.TempDir(), "missing")

	renderer := &recordingRenderer{}
	ta := newTestApp(t, Dependencies{Diagnostics: renderer}, nil)

	if code := ta.run("--dir", missing, "--dir", apps); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr:\n%s", code, ta.stderr)
	}
	if len(renderer.diags) != 1 || renderer.diags[0].Code != discovery.CodeRootNotFound {
		t.Errorf("diagnostics = %+v, want one %s", renderer.diags, discovery.CodeRootNotFound)
	}
}

func TestExecute_HomeNotSet(t *testing.T) {
	apps := t.TempDir()
	testutil.WriteDesktopEntry(t, apps, "a.desktop", "A", "a")

	ta := newTestApp(t, Dependencies{}, []string{"HOME="})

	if code := ta.run("--dir", apps); code != ExitFatal {
		t.Fatalf("exit code = %d, want %d", code, ExitFatal)
	}
	if ta.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", ta.stdout)
	}
	if !strings.Contains(ta.stderr.String(), environ.ErrHomeNotSet.Error()) {
		t.Errorf("stderr = %q, want %q", ta.stderr, environ.ErrHomeNotSet)
	}
}

func TestExecute_UsageError(t *testing.T) {
	ta := newTestApp(t, Dependencies{}, nil)

	if code := ta.run("entries", "--format", "yaml"); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

func TestFailed(t *testing.T) {
	t.Parallel()

	if failed(nil) != nil {
		t.Error("failed(nil) != nil")
	}

	var exitErr *ExitError
	if err := failed(errors.New("boom")); !errors.As(err, &exitErr) || exitErr.Code != ExitFatal {
		t.Errorf("failed(boom) = %v, want ExitError with code %d", err, ExitFatal)
	}

	reported := &ExitError{Code: ExitFatal}
	if err := failed(reported); err != reported {
		t.Errorf("failed(ExitError) = %v, want it unchanged", err)
	}
}
