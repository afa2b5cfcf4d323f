package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/orbit/pkg/integrations/donki"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// KindPicker - Interactive space-weather kind selection
// =============================================================================

// KindPicker is the bubbletea model for choosing a DONKI event kind.
type KindPicker struct {
	Kinds    []donki.Kind
	Cursor   int
	Selected donki.Kind
	Height   int
	Offset   int
}

// NewKindPicker creates a picker over every known kind.
func NewKindPicker() KindPicker {
	return KindPicker{
		Kinds:  donki.Kinds(),
		Height: 10,
	}
}

func (m KindPicker) Init() tea.Cmd {
	return nil
}

func (m KindPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Kinds)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Kinds) > 0 {
				m.Selected = m.Kinds[m.Cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 3)
	}
	return m, nil
}

func (m KindPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Event Kind"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Kinds))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, string(m.Kinds[i]), m.Kinds[i].Description()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "Description").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Kinds))))

	return b.String()
}

// pickKind runs the picker and returns the chosen kind, or "" if the user quit.
func pickKind() (donki.Kind, error) {
	final, err := tea.NewProgram(NewKindPicker()).Run()
	if err != nil {
		return "", err
	}
	return final.(KindPicker).Selected, nil
}
