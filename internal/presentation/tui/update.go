package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	axq "github.com/axq-tools/axq"
	"github.com/axq-tools/axq/pkg/ax"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loadTimeout bounds one child load or action listing from the event loop.
const loadTimeout = 10 * time.Second

// MsgChildren carries the loaded children of the current element.
type MsgChildren []*ax.Element

// MsgActions carries the action names of the selected element.
type MsgActions []string

// MsgActionDone reports the outcome of a dispatched action.
type MsgActionDone struct {
	Name string
	Err  error
}

// MsgError indicates an error occurred.
type MsgError error

func loadChildrenCmd(el *ax.Element) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		if _, err := el.LoadChildrenIfNeeded(ctx); err != nil {
			return MsgError(err)
		}
		return MsgChildren(el.Children())
	}
}

func loadActionsCmd(eng *axq.Engine, el *ax.Element) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		actions, err := eng.AvailableActions(ctx, el)
		if err != nil {
			return MsgError(err)
		}
		return MsgActions(actions)
	}
}

func performActionCmd(eng *axq.Engine, el *ax.Element, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return MsgActionDone{Name: name, Err: eng.PerformAction(ctx, el, name)}
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		return m, nil

	case MsgChildren:
		m.Loading = false
		m.Err = nil
		m.Children = msg
		m.SelectedIdx = 0
		m.refilter()
		return m, nil

	case MsgActions:
		m.ShowActions = true
		m.Actions = msg
		m.ActionIdx = 0
		return m, nil

	case MsgActionDone:
		if msg.Err != nil {
			m.Status = fmt.Sprintf("action %q failed: %v", msg.Name, msg.Err)
		} else {
			m.Status = fmt.Sprintf("performed %q", msg.Name)
		}
		m.ShowActions = false
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.refilter()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.refilter()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.refilter()
			return m, cmd
		}

		if m.ShowActions {
			switch msg.String() {
			case "up", "k":
				if m.ActionIdx > 0 {
					m.ActionIdx--
				}
			case "down", "j":
				if m.ActionIdx < len(m.Actions)-1 {
					m.ActionIdx++
				}
			case "enter":
				if el := m.selectedElement(); el != nil && m.ActionIdx < len(m.Actions) {
					m.Status = fmt.Sprintf("performing %q...", m.Actions[m.ActionIdx])
					return m, performActionCmd(m.Engine, el, m.Actions[m.ActionIdx])
				}
			case "esc", "a", "q":
				m.ShowActions = false
			case "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
			}
		case "enter", "right", "l":
			if el := m.selectedElement(); el != nil && el.HasChildren {
				m.Current = el
				m.Loading = true
				m.Status = ""
				m.InputBuffer.SetValue("")
				return m, loadChildrenCmd(el)
			}
		case "backspace", "left", "h", "esc":
			if parent := m.Current.Parent(); parent != nil {
				m.Current = parent
				m.Loading = false
				m.Err = nil
				m.Status = ""
				m.Children = parent.Children()
				m.SelectedIdx = 0
				m.InputBuffer.SetValue("")
				m.refilter()
			}
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		case "a":
			if el := m.selectedElement(); el != nil {
				return m, loadActionsCmd(m.Engine, el)
			}
		}
	}

	return m, cmd
}

func (m *AppModel) selectedElement() *ax.Element {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		return nil
	}
	return m.Children[m.FilteredIndices[m.SelectedIdx]]
}

func (m *AppModel) refilter() {
	term := strings.ToLower(m.InputBuffer.Value())
	m.FilteredIndices = m.FilteredIndices[:0]
	for i, child := range m.Children {
		if term == "" ||
			strings.Contains(strings.ToLower(child.Role), term) ||
			strings.Contains(strings.ToLower(child.Title), term) {
			m.FilteredIndices = append(m.FilteredIndices, i)
		}
	}
	if m.SelectedIdx >= len(m.FilteredIndices) {
		m.SelectedIdx = 0
	}
}
