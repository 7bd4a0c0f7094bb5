// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deskmenu/deskmenu/internal/desktopentry"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	defaultHeight = 20
	defaultWidth  = 60
)

var (
	// ErrCancelled is returned when the user leaves the picker without a selection.
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoEntries is returned when there is nothing to pick from.
	ErrNoEntries = errors.New("no entries to pick from")
)

type (
	// PickOptions configures the entry picker.
	PickOptions struct {
		// Title is displayed above the list.
		Title string
		// Entries are listed in the given order.
		Entries []desktopentry.Entry
		// Height and Width size the list before the first resize (0 for defaults).
		Height int
		Width  int
		// Output receives the rendered UI. Defaults to stderr so stdout stays
		// reserved for the selected line.
		Output io.Writer
		// Input is read for key presses. Defaults to stdin.
		Input io.Reader
	}

	// entryItem implements list.DefaultItem for one entry.
	entryItem struct {
		entry desktopentry.Entry
	}

	// PickModel is the bubbletea model of the picker.
	PickModel struct {
		list      list.Model
		selected  *desktopentry.Entry
		quitting  bool
		cancelled bool
	}
)

func (i entryItem) Title() string       { return i.entry.Name }
func (i entryItem) Description() string { return i.entry.Exec }
func (i entryItem) FilterValue() string { return i.entry.Name + " " + i.entry.ID }

// NewPickModel builds the picker model for opts.
func NewPickModel(opts PickOptions) PickModel {
	items := make([]list.Item, len(opts.Entries))
	for i, e := range opts.Entries {
		items[i] = entryItem{entry: e}
	}

	height := opts.Height
	if height == 0 {
		height = defaultHeight
	}
	width := opts.Width
	if width == 0 {
		width = defaultWidth
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = opts.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	l.FilterInput.Placeholder = "Type to filter..."

	return PickModel{list: l}
}

// Init implements tea.Model.
func (m PickModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Enter selects the highlighted entry, Esc and
// Ctrl+C cancel. While the filter input is focused, Enter and Esc apply or
// clear the filter instead.
func (m PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		filtering := m.list.FilterState() == list.Filtering
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			if filtering {
				break
			}
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if filtering {
				break
			}
			if item, ok := m.list.SelectedItem().(entryItem); ok {
				m.selected = &item.entry
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PickModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the chosen entry once the user pressed Enter.
func (m PickModel) Selected() (desktopentry.Entry, bool) {
	if m.selected == nil {
		return desktopentry.Entry{}, false
	}
	return *m.selected, true
}

// Cancelled reports whether the user left with Esc or Ctrl+C.
func (m PickModel) Cancelled() bool {
	return m.cancelled
}

// Pick runs the picker and returns the chosen entry.
func Pick(ctx context.Context, opts PickOptions) (desktopentry.Entry, error) {
	if len(opts.Entries) == 0 {
		return desktopentry.Entry{}, ErrNoEntries
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}

	final, err := tea.NewProgram(NewPickModel(opts), progOpts...).Run()
	if err != nil {
		return desktopentry.Entry{}, fmt.Errorf("run picker: %w", err)
	}

	pm, ok := final.(PickModel)
	if !ok || pm.Cancelled() {
		return desktopentry.Entry{}, ErrCancelled
	}
	if e, ok := pm.Selected(); ok {
		return e, nil
	}
	return desktopentry.Entry{}, ErrCancelled
}

// IsInteractive reports whether stdin is connected to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
