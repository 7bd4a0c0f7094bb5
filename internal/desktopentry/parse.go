// SPDX-License-Identifier: MPL-2.0

package desktopentry

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/go-ini/ini"
)

const (
	// Extension is the filename suffix of desktop entry files.
	Extension = ".desktop"
	// MainGroup is the group holding the launcher keys.
	MainGroup = "Desktop Entry"
)

type (
	// Group is one [Section] of a desktop entry file: raw key to raw value.
	// Localized keys such as "Name[de]" are kept verbatim as separate keys.
	Group map[string]string

	// File is the parsed key/value content of a desktop entry file.
	// It carries no identity; the same File may back several entries when
	// it is reachable through symlinks.
	File struct {
		groups map[string]Group
	}
)

// loadOptions configures go-ini for the desktop entry dialect: '#' only
// starts a comment at the beginning of a line, '=' is the only delimiter,
// a trailing backslash is literal and unparseable lines are skipped.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
	SkipUnrecognizableLines: true,
	KeyValueDelimiters:      "=",
}

// rawOpeners are value prefixes go-ini reads as quoting and strips. The
// desktop entry format has no such quoting, so these values bypass go-ini.
var rawOpeners = [][]byte{[]byte("`"), []byte(`"""`)}

// rawToken marks a shielded value. The control characters keep it from
// colliding with text a real entry would carry.
const rawToken = "\x1fdeskmenu-raw-%d\x1f"

// ParseFile reads and parses the desktop entry file at path.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse desktop entry %s: %w", path, err)
	}
	f, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse desktop entry %s: %w", path, err)
	}
	return f, nil
}

// ParseBytes parses desktop entry content held in memory.
func ParseBytes(data []byte) (*File, error) {
	f, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse desktop entry: %w", err)
	}
	return f, nil
}

func parse(data []byte) (*File, error) {
	shielded, raw := shieldRawValues(data)
	f, err := ini.LoadSources(loadOptions, shielded)
	if err != nil {
		return nil, err
	}
	return fromINI(f, raw), nil
}

// shieldRawValues swaps every value that starts with a go-ini quote opener
// for a token, so go-ini neither unquotes it nor reads past the line
// looking for the closing quote. It returns the original values by token.
func shieldRawValues(data []byte) ([]byte, map[string]string) {
	var (
		raw   map[string]string
		lines = bytes.SplitAfter(data, []byte("\n"))
	)
	for i, line := range lines {
		if lead := bytes.TrimLeft(line, " \t"); len(lead) == 0 || lead[0] == '#' || lead[0] == '[' {
			continue
		}
		key, value, ok := bytes.Cut(line, []byte("="))
		if !ok {
			continue
		}
		value = bytes.TrimSpace(value)
		if !slices.ContainsFunc(rawOpeners, func(p []byte) bool { return bytes.HasPrefix(value, p) }) {
			continue
		}
		if raw == nil {
			raw = make(map[string]string)
		}
		token := fmt.Sprintf(rawToken, len(raw))
		raw[token] = string(value)

		shielded := make([]byte, 0, len(key)+len(token)+2)
		shielded = append(shielded, key...)
		shielded = append(shielded, '=')
		shielded = append(shielded, token...)
		if bytes.HasSuffix(line, []byte("\n")) {
			shielded = append(shielded, '\n')
		}
		lines[i] = shielded
	}
	if raw == nil {
		return data, nil
	}
	return bytes.Join(lines, nil), raw
}

func fromINI(f *ini.File, raw map[string]string) *File {
	out := &File{groups: make(map[string]Group)}
	for _, sec := range f.Sections() {
		keys := sec.Keys()
		if len(keys) == 0 && sec.Name() == ini.DefaultSection {
			continue
		}
		g := make(Group, len(keys))
		for _, k := range keys {
			v := k.Value()
			if orig, ok := raw[v]; ok {
				v = orig
			}
			g[k.Name()] = v
		}
		out.groups[sec.Name()] = g
	}
	return out
}

// Group returns the named group, or nil and false when the file has none.
func (f *File) Group(name string) (Group, bool) {
	if f == nil {
		return nil, false
	}
	g, ok := f.groups[name]
	return g, ok
}

// Lookup returns the raw value of key and whether it is present.
func (g Group) Lookup(key string) (string, bool) {
	v, ok := g[key]
	return v, ok
}
