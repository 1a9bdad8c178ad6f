// Package tui is an interactive element-tree navigator built on
// bubbletea. One level of the tree is shown at a time; descending loads
// children lazily through the engine so slow providers never block the
// event loop.
package tui

import (
	axq "github.com/axq-tools/axq"
	"github.com/axq-tools/axq/pkg/ax"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Engine   *axq.Engine
	Current  *ax.Element
	Children []*ax.Element
	Loading  bool
	Err      error
	Status   string

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// Filter State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int

	// Actions palette
	ShowActions bool
	Actions     []string
	ActionIdx   int
}

// InitialModel starts the navigator at root.
func InitialModel(eng *axq.Engine, root *ax.Element) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Filter by role or title..."
	ti.CharLimit = 50
	ti.Width = 30

	return AppModel{
		Engine:      eng,
		Current:     root,
		Loading:     true,
		InputBuffer: ti,
	}
}

// Init kicks off the first child load.
func (m AppModel) Init() tea.Cmd {
	return loadChildrenCmd(m.Current)
}

// Run drives the navigator until the user quits.
func Run(eng *axq.Engine, root *ax.Element) error {
	p := tea.NewProgram(InitialModel(eng, root), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
