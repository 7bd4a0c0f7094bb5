// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	HomeNotSetId Id = iota + 1
	NoTerminalFoundId
	ConfigLoadFailedId
	EnvFileFailedId
	NoEntriesFoundId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // specifications the guidance is based on
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message followed by a "See also" list of links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(slices.Clone(i.docLinks), i.extLinks...) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue as styled terminal output. stylePath is a
// glamour style name ("dark", "light", "notty") or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	desktopEntrySpec HttpLink = "https://specifications.freedesktop.org/desktop-entry-spec/latest/"
	baseDirSpec      HttpLink = "https://specifications.freedesktop.org/basedir-spec/latest/"

	homeNotSetIssue = &Issue{
		id: HomeNotSetId,
		mdMsg: `
# HOME is not set!

The per-user applications directory is ` + "`$HOME/.local/share/applications/`" + `,
so deskmenu cannot build its search roots without a home directory.

## Things you can try:
- Export HOME before running deskmenu:
~~~
$ export HOME=/home/you
~~~

- When running from a service manager, make sure the unit passes the
  user's environment.`,
		docLinks: []HttpLink{baseDirSpec},
	}

	noTerminalFoundIssue = &Issue{
		id: NoTerminalFoundId,
		mdMsg: `
# No terminal emulator found!

At least one entry has ` + "`Terminal=true`" + `, and none of the known terminal
emulators could be found on your PATH.

## Things you can try:
- Set the TERMINAL variable:
~~~
$ export TERMINAL=foot
~~~

- Pass one explicitly:
~~~
$ deskmenu --terminal "foot -e"
~~~

- Or configure it once in ` + "`~/.config/deskmenu/config.cue`" + `:
~~~cue
terminal: command: "foot"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be loaded. deskmenu continues with its
built-in defaults.

## Things you can try:
- Check the file for CUE syntax errors
- Compare it with a freshly generated one:
~~~
$ deskmenu config init
$ deskmenu config show
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	envFileFailedIssue = &Issue{
		id: EnvFileFailedId,
		mdMsg: `
# Failed to read the env file!

The dotenv file given with ` + "`--env-file`" + ` (or ` + "`env_file`" + ` in the
configuration) could not be read.

## Things you can try:
- Check that the file exists and is readable
- Use one KEY=VALUE assignment per line`,
	}

	noEntriesFoundIssue = &Issue{
		id: NoEntriesFoundId,
		mdMsg: `
# No applications found!

None of the search roots contained a usable desktop entry.

## Things you can try:
- List the roots that were scanned:
~~~
$ deskmenu roots
~~~

- Add a directory:
~~~cue
search: extra_dirs: ["~/.nix-profile/share/applications"]
~~~`,
		docLinks: []HttpLink{desktopEntrySpec},
	}

	catalog = []*Issue{
		homeNotSetIssue,
		noTerminalFoundIssue,
		configLoadFailedIssue,
		envFileFailedIssue,
		noEntriesFoundIssue,
	}
)

// Values returns every catalog entry in Id order.
func Values() []*Issue {
	return slices.Clone(catalog)
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	idx := slices.IndexFunc(catalog, func(i *Issue) bool { return i.id == id })
	if idx < 0 {
		return nil
	}
	return catalog[idx]
}
