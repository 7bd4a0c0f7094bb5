// SPDX-License-Identifier: MPL-2.0

package environ

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFromPairs(t *testing.T) {
	t.Parallel()

	e := FromPairs([]string{"A=1", "B=", "broken", "=x", "A=2", "C=a=b"}, "/work")

	if v, ok := e.Lookup("A"); !ok || v != "2" {
		t.Errorf("A = %q (present %v), want 2", v, ok)
	}
	if v, ok := e.Lookup("B"); !ok || v != "" {
		t.Errorf("B must be present and empty, got %q (present %v)", v, ok)
	}
	if _, ok := e.Lookup("broken"); ok {
		t.Error("pair without '=' must be ignored")
	}
	if e.Get("C") != "a=b" {
		t.Errorf("C = %q, want a=b", e.Get("C"))
	}
	if e.Dir() != "/work" {
		t.Errorf("Dir() = %q", e.Dir())
	}
}

func TestHomeDir(t *testing.T) {
	t.Parallel()

	if _, err := FromPairs(nil, "").HomeDir(); !errors.Is(err, ErrHomeNotSet) {
		t.Errorf("unset HOME: err = %v, want ErrHomeNotSet", err)
	}
	if _, err := FromPairs([]string{"HOME="}, "").HomeDir(); !errors.Is(err, ErrHomeNotSet) {
		t.Errorf("empty HOME: err = %v, want ErrHomeNotSet", err)
	}
	home, err := FromPairs([]string{"HOME=/home/u"}, "").HomeDir()
	if err != nil || home != "/home/u" {
		t.Errorf("HomeDir() = %q, %v", home, err)
	}
}

func TestDataDirs(t *testing.T) {
	t.Parallel()

	sep := string(os.PathListSeparator)
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "unset", raw: "", want: nil},
		{name: "single", raw: "/usr/share", want: []string{"/usr/share"}},
		{name: "multiple with empties", raw: "/a" + sep + sep + "/b" + sep, want: []string{"/a", "/b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := FromPairs([]string{XDGDataDirs + "=" + tt.raw}, "")
			if got := e.DataDirs(); !slices.Equal(got, tt.want) {
				t.Errorf("DataDirs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithDotenv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "session.env")
	content := "TERMINAL=foot\nXDG_DATA_DIRS=/opt/share\n# comment\nQUOTED=\"a b\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	base := FromPairs([]string{"HOME=/home/u", "TERMINAL=xterm"}, "")
	got, err := base.WithDotenv(path)
	if err != nil {
		t.Fatalf("WithDotenv() error = %v", err)
	}

	if got.Get(Terminal) != "foot" {
		t.Errorf("TERMINAL = %q, want foot (file wins)", got.Get(Terminal))
	}
	if got.Get("QUOTED") != "a b" {
		t.Errorf("QUOTED = %q", got.Get("QUOTED"))
	}
	if got.Get(Home) != "/home/u" {
		t.Errorf("HOME = %q, want kept", got.Get(Home))
	}
	if base.Get(Terminal) != "xterm" {
		t.Error("WithDotenv must not mutate the receiver")
	}

	if _, err := base.WithDotenv(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("expected error for missing env file")
	}
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	e := FromPairs([]string{"HOME=/home/u", "APPS=/srv/apps"}, "/work")

	tests := []struct {
		in   string
		want string
	}{
		{in: "~", want: "/home/u"},
		{in: "~/apps", want: "/home/u/apps"},
		{in: "$HOME/.local/share/applications", want: "/home/u/.local/share/applications"},
		{in: "${APPS}/extra/", want: "/srv/apps/extra"},
		{in: "relative/dir", want: "/work/relative/dir"},
		{in: "/abs/dir", want: "/abs/dir"},
		{in: "$UNSET", want: ""},
	}
	for _, tt := range tests {
		got, err := e.ExpandPath(tt.in)
		if err != nil {
			t.Errorf("ExpandPath(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWith(t *testing.T) {
	t.Parallel()

	base := FromPairs([]string{"A=1"}, "")
	next := base.With("A", "2")
	if base.Get("A") != "1" || next.Get("A") != "2" {
		t.Errorf("With() must copy: base=%q next=%q", base.Get("A"), next.Get("A"))
	}
	if got := next.Pairs(); !slices.Equal(got, []string{"A=2"}) {
		t.Errorf("Pairs() = %v", got)
	}
}
