// SPDX-License-Identifier: MPL-2.0

package desktopentry

// Entry is a normalized launcher record. Entries are built once by
// Normalize and treated as immutable afterwards.
type Entry struct {
	// ID is the desktop file id used for deduplication, e.g. "foo-bar.desktop"
	// for bar.desktop found in subdirectory foo of a search root.
	ID string `json:"id"`
	// Name is the display label. Never empty for a normalized entry.
	Name string `json:"name"`
	// Exec is the command line with field codes removed. May be empty.
	Exec string `json:"exec"`
	// Terminal reports whether the command must run inside a terminal emulator.
	Terminal bool `json:"terminal"`
	// Skip reports whether the entry is hidden (NoDisplay=true).
	Skip bool `json:"skip"`
	// SourcePath is the path the entry was discovered at. Diagnostic only.
	SourcePath string `json:"source_path"`
}

// Normalize validates the [Desktop Entry] group of f and builds an Entry
// with the given id and source path.
//
// Validation order: Type must be exactly "Application", then Name must be
// present, then Exec must be present. A present but empty Name is rejected
// the same way as a missing one.
func Normalize(f *File, id, sourcePath string) (Entry, error) {
	g, _ := f.Group(MainGroup)

	if typ, _ := g.Lookup("Type"); typ != "Application" {
		return Entry{}, &NotAnApplicationError{Type: typ}
	}

	name, ok := g.Lookup("Name")
	if !ok || name == "" {
		return Entry{}, &MissingFieldError{Field: "Name"}
	}

	exec, ok := g.Lookup("Exec")
	if !ok {
		return Entry{}, &MissingFieldError{Field: "Exec"}
	}

	return Entry{
		ID:         id,
		Name:       name,
		Exec:       StripFieldCodes(exec),
		Terminal:   isTrue(g, "Terminal"),
		Skip:       isTrue(g, "NoDisplay"),
		SourcePath: sourcePath,
	}, nil
}

// isTrue reports whether key holds the literal boolean "true". Desktop entry
// booleans are lowercase; "True", "1" and "yes" are not accepted.
func isTrue(g Group, key string) bool {
	v, ok := g.Lookup(key)
	return ok && v == "true"
}
