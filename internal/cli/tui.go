package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gedtree/gedtree/pkg/gtr"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// personListModel is the bubbletea model for interactive person selection.
// It shows every person in the file with enough context to tell
// same-named relatives apart.
type personListModel struct {
	Persons  []*gtr.Person
	Cursor   int
	Selected *gtr.Person
	Height   int
	Offset   int
	filter   string
}

// newPersonListModel creates a person list over all persons in the graph.
func newPersonListModel(persons []*gtr.Person) personListModel {
	return personListModel{
		Persons: persons,
		Height:  15,
	}
}

func (m personListModel) Init() tea.Cmd {
	return nil
}

func (m personListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "ctrl+n":
			if m.Cursor < len(m.visible())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			visible := m.visible()
			if len(visible) > 0 {
				m.Selected = visible[m.Cursor]
			}
			return m, tea.Quit
		case "backspace":
			if len(m.filter) > 0 {
				m.filter = m.filter[:len(m.filter)-1]
				m.clampCursor()
			}
		default:
			if len(msg.String()) == 1 {
				m.filter += msg.String()
				m.clampCursor()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// visible returns the persons matching the current filter.
func (m personListModel) visible() []*gtr.Person {
	if m.filter == "" {
		return m.Persons
	}
	needle := strings.ToLower(m.filter)
	var out []*gtr.Person
	for _, p := range m.Persons {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.ID), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (m *personListModel) clampCursor() {
	if max := len(m.visible()) - 1; m.Cursor > max {
		m.Cursor = 0
		m.Offset = 0
	}
}

func (m personListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Person"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc quit  type to filter"))
	if m.filter != "" {
		b.WriteString("   ")
		b.WriteString(StyleHighlight.Render("filter: " + m.filter))
	}
	b.WriteString("\n\n")

	visible := m.visible()
	end := m.Offset + m.Height
	if end > len(visible) {
		end = len(visible)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := visible[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		parents := ""
		if p.ChildFamily != nil {
			parents = "✓"
		}

		children := 0
		for _, fam := range p.ParentFamilies {
			children += len(fam.Children)
		}

		rows = append(rows, []string{
			cursor, p.ID, p.Name, p.Sex(), parents, fmt.Sprintf("%d", children),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Id", "Name", "Sex", "Parents", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(visible))))

	return b.String()
}
