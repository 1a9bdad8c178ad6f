package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("205"))

	unselectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(4).
				Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	paletteStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func (m AppModel) View() string {
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  %s\n", m.Err,
			dimStyle.Render("backspace to go up, q to quit"))
	}
	if m.Loading {
		return "\n  Loading children... please wait.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Current.DisplayPath()))
	b.WriteString("\n\n")

	if m.ShowActions {
		b.WriteString(m.actionsView())
		return b.String()
	}

	if len(m.FilteredIndices) == 0 {
		if m.InputBuffer.Value() != "" {
			b.WriteString(dimStyle.Render("  no children match the filter"))
		} else {
			b.WriteString(dimStyle.Render("  no accessible children"))
		}
		b.WriteString("\n")
	}

	visible := m.visibleRows()
	start := 0
	if m.SelectedIdx >= visible {
		start = m.SelectedIdx - visible + 1
	}
	for row := start; row < len(m.FilteredIndices) && row < start+visible; row++ {
		child := m.Children[m.FilteredIndices[row]]
		label := child.Segment()
		if child.HasChildren {
			label += " >"
		}
		if row == m.SelectedIdx {
			b.WriteString(selectedItemStyle.Render("> " + label))
		} else {
			b.WriteString(unselectedItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.InputMode {
		b.WriteString("  /" + m.InputBuffer.View() + "\n")
	} else if m.InputBuffer.Value() != "" {
		b.WriteString(dimStyle.Render("  filter: "+m.InputBuffer.Value()) + "\n")
	}
	if m.Status != "" {
		b.WriteString(statusStyle.Render("  "+m.Status) + "\n")
	}
	b.WriteString(dimStyle.Render("  enter descend · backspace up · / filter · a actions · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m AppModel) actionsView() string {
	var b strings.Builder
	el := m.selectedElement()
	if el != nil {
		b.WriteString(fmt.Sprintf("Actions for %s\n\n", el.Segment()))
	}
	for i, action := range m.Actions {
		if i == m.ActionIdx {
			b.WriteString(selectedItemStyle.Render("> " + action))
		} else {
			b.WriteString(unselectedItemStyle.Render(action))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter perform · esc close"))
	return paletteStyle.Render(b.String())
}

func (m AppModel) visibleRows() int {
	rows := m.WindowSize.Height - 7
	if rows < 5 {
		rows = 5
	}
	return rows
}
