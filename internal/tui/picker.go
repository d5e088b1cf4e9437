// Package tui provides the interactive subtree picker: a checklist of
// top-level groups and datasets whose unselected entries become
// exclusions for the walk.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Entry is one selectable node.
type Entry struct {
	Path  string
	Label string // "group" or "dataset" or "link"
}

type item struct {
	entry    Entry
	selected bool
}

// Picker is a bubbletea model for choosing which subtrees to report.
type Picker struct {
	items     []item
	cursor    int
	confirmed bool
}

// NewPicker creates a picker with all entries selected by default.
func NewPicker(entries []Entry) *Picker {
	items := make([]item, len(entries))
	for i, e := range entries {
		items[i] = item{entry: e, selected: true}
	}
	return &Picker{items: items}
}

func (p *Picker) toggle(i int) {
	if i >= 0 && i < len(p.items) {
		p.items[i].selected = !p.items[i].selected
	}
}

func (p *Picker) selectAll() {
	for i := range p.items {
		p.items[i].selected = true
	}
}

func (p *Picker) selectNone() {
	for i := range p.items {
		p.items[i].selected = false
	}
}

// Excluded returns the paths the user left unselected.
func (p *Picker) Excluded() []string {
	var result []string
	for _, it := range p.items {
		if !it.selected {
			result = append(result, it.entry.Path)
		}
	}
	return result
}

// Confirmed returns true if user pressed Enter (not q).
func (p *Picker) Confirmed() bool {
	return p.confirmed
}

func (p *Picker) Init() tea.Cmd {
	return nil
}

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case "enter":
			p.confirmed = true
			return p, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
		case " ":
			p.toggle(p.cursor)
		case "a":
			p.selectAll()
		case "n":
			p.selectNone()
		}
	}
	return p, nil
}

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	unselStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (p *Picker) View() string {
	var b strings.Builder

	selected := 0
	for _, it := range p.items {
		if it.selected {
			selected++
		}
	}

	fmt.Fprintf(&b, "%s\n\n", headerStyle.Render(
		fmt.Sprintf("h5report: %d top-level nodes (%d selected)", len(p.items), selected)))

	for i, it := range p.items {
		cursor := "  "
		if i == p.cursor {
			cursor = "> "
		}

		checkbox := "[ ]"
		style := unselStyle
		if it.selected {
			checkbox = "[x]"
			style = selectedStyle
		}

		line := fmt.Sprintf("%s %s  (%s)", checkbox, it.entry.Path, it.entry.Label)

		if i == p.cursor {
			fmt.Fprintf(&b, "%s%s\n", cursorStyle.Render(cursor), style.Render(line))
		} else {
			fmt.Fprintf(&b, "%s%s\n", cursor, style.Render(line))
		}
	}

	fmt.Fprintf(&b, "\n%s\n", helpStyle.Render(
		"up/down navigate  SPACE toggle  a all  n none  ENTER generate  q quit"))

	return b.String()
}

// Run launches the interactive picker and returns the paths to
// exclude from the report. Returns nil, false if user quit without
// confirming.
func Run(entries []Entry) ([]string, bool) {
	p := NewPicker(entries)
	finalModel, err := tea.NewProgram(p).Run()
	if err != nil {
		return nil, false
	}
	picker := finalModel.(*Picker)
	if !picker.Confirmed() {
		return nil, false
	}
	return picker.Excluded(), true
}
