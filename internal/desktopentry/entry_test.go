// SPDX-License-Identifier: MPL-2.0

package desktopentry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustParse(t *testing.T, content string) *File {
	t.Helper()
	f, err := ParseBytes([]byte(content))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return f
}

func TestNormalize_MinimalApplication(t *testing.T) {
	t.Parallel()

	f := mustParse(t, "[Desktop Entry]\nType=Application\nName=Editor\nExec=editor %f\nTerminal=false\n")

	got, err := Normalize(f, "app.desktop", "/usr/share/applications/app.desktop")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := Entry{
		ID:         "app.desktop",
		Name:       "Editor",
		Exec:       "editor ",
		Terminal:   false,
		Skip:       false,
		SourcePath: "/usr/share/applications/app.desktop",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalize_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		extra        string
		wantTerminal bool
		wantSkip     bool
	}{
		{name: "absent", extra: "", wantTerminal: false, wantSkip: false},
		{name: "terminal true", extra: "Terminal=true\n", wantTerminal: true},
		{name: "terminal uppercase is not true", extra: "Terminal=True\n", wantTerminal: false},
		{name: "terminal numeric is not true", extra: "Terminal=1\n", wantTerminal: false},
		{name: "nodisplay true", extra: "NoDisplay=true\n", wantSkip: true},
		{name: "nodisplay other", extra: "NoDisplay=yes\n", wantSkip: false},
		{name: "both", extra: "Terminal=true\nNoDisplay=true\n", wantTerminal: true, wantSkip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := mustParse(t, "[Desktop Entry]\nType=Application\nName=Top\nExec=top\n"+tt.extra)
			got, err := Normalize(f, "top.desktop", "")
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got.Terminal != tt.wantTerminal {
				t.Errorf("Terminal = %v, want %v", got.Terminal, tt.wantTerminal)
			}
			if got.Skip != tt.wantSkip {
				t.Errorf("Skip = %v, want %v", got.Skip, tt.wantSkip)
			}
		})
	}
}

func TestNormalize_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantField string // empty means NotAnApplicationError
		wantType  string
	}{
		{
			name:     "link type",
			content:  "[Desktop Entry]\nType=Link\nName=Site\nExec=xdg-open x\n",
			wantType: "Link",
		},
		{
			name:     "directory type",
			content:  "[Desktop Entry]\nType=Directory\nName=Games\nExec=true\n",
			wantType: "Directory",
		},
		{
			name:    "missing type",
			content: "[Desktop Entry]\nName=App\nExec=app\n",
		},
		{
			name:    "missing main group",
			content: "[Desktop Action new]\nType=Application\nName=App\nExec=app\n",
		},
		{
			name:      "missing name",
			content:   "[Desktop Entry]\nType=Application\nExec=app\n",
			wantField: "Name",
		},
		{
			name:      "empty name",
			content:   "[Desktop Entry]\nType=Application\nName=\nExec=app\n",
			wantField: "Name",
		},
		{
			name:      "missing exec",
			content:   "[Desktop Entry]\nType=Application\nName=App\n",
			wantField: "Exec",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(mustParse(t, tt.content), "x.desktop", "")
			if !errors.Is(err, ErrInvalidEntry) {
				t.Fatalf("expected ErrInvalidEntry, got %v", err)
			}

			if tt.wantField != "" {
				var mf *MissingFieldError
				if !errors.As(err, &mf) {
					t.Fatalf("expected *MissingFieldError, got %T", err)
				}
				if mf.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", mf.Field, tt.wantField)
				}
				return
			}

			var na *NotAnApplicationError
			if !errors.As(err, &na) {
				t.Fatalf("expected *NotAnApplicationError, got %T", err)
			}
			if na.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", na.Type, tt.wantType)
			}
		})
	}
}

func TestNormalize_EmptyExecAfterStripping(t *testing.T) {
	t.Parallel()

	f := mustParse(t, "[Desktop Entry]\nType=Application\nName=Odd\nExec=%U\n")
	got, err := Normalize(f, "odd.desktop", "")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got.Exec != "" {
		t.Errorf("Exec = %q, want empty", got.Exec)
	}
}

func TestParseBytes_DesktopDialect(t *testing.T) {
	t.Parallel()

	content := `# comment line
[Desktop Entry]
Type=Application
Name=Shell # not a comment
Name[de]=Schale
Exec="/opt/my app/run" --opt=a:b \
Icon=shell

[Desktop Action new]
Name=New Window
Exec=shell --new
`
	f := mustParse(t, content)

	g, ok := f.Group(MainGroup)
	if !ok {
		t.Fatal("expected [Desktop Entry] group")
	}

	checks := map[string]string{
		"Name":     "Shell # not a comment",
		"Name[de]": "Schale",
		"Exec":     `"/opt/my app/run" --opt=a:b \`,
		"Icon":     "shell",
	}
	for key, want := range checks {
		got, ok := g.Lookup(key)
		if !ok {
			t.Errorf("key %q missing", key)
			continue
		}
		if got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}

	action, ok := f.Group("Desktop Action new")
	if !ok {
		t.Fatal("expected action group")
	}
	if action["Exec"] != "shell --new" {
		t.Errorf("action Exec = %q", action["Exec"])
	}
}

func TestParseBytes_QuoteLikeValuesAreLiteral(t *testing.T) {
	t.Parallel()

	content := "[Desktop Entry]\n" +
		"Type=Application\n" +
		"Name=Which\n" +
		"Exec=`which foo` --bar\n" +
		"Comment=`unterminated\n" +
		"Icon=which\r\n" +
		"\n" +
		"[Desktop Action odd]\n" +
		"Exec=\"\"\"weird\"\"\" arg\n" +
		"# Exec=`ignored`\n"
	f := mustParse(t, content)

	g, _ := f.Group(MainGroup)
	checks := map[string]string{
		"Exec":    "`which foo` --bar",
		"Comment": "`unterminated",
		"Icon":    "which",
	}
	for key, want := range checks {
		if got := g[key]; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}

	action, ok := f.Group("Desktop Action odd")
	if !ok {
		t.Fatal("expected action group")
	}
	if got, want := action["Exec"], `"""weird""" arg`; got != want {
		t.Errorf("action Exec = %q, want %q", got, want)
	}

	entry, err := Normalize(f, "which.desktop", "")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if entry.Exec != "`which foo` --bar" {
		t.Errorf("Normalize() Exec = %q", entry.Exec)
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.desktop")
	if err := os.WriteFile(path, []byte("[Desktop Entry]\nType=Application\nName=App\nExec=app\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if _, err := Normalize(f, "app.desktop", path); err != nil {
		t.Errorf("Normalize() error = %v", err)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.desktop")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFile_NilGroup(t *testing.T) {
	t.Parallel()

	var f *File
	if _, ok := f.Group(MainGroup); ok {
		t.Error("nil File must report no groups")
	}
	if _, err := Normalize(f, "x.desktop", ""); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Normalize(nil) error = %v, want ErrInvalidEntry", err)
	}
}
