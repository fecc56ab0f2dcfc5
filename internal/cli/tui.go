package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/orngkit/pkg/data"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Roles shown in the variable picker.
const (
	roleClass     = "class"
	roleMeta      = "meta"
	roleAttribute = "attribute"
)

// VariableChoice is one variable that can label dendrogram leaves.
type VariableChoice struct {
	Name   string
	Role   string
	Type   data.VarType
	Values int
}

// labelChoices lists the variables of d that can name examples: the class,
// the meta attributes in ID order, then the discrete attributes.
func labelChoices(d *data.Domain) []VariableChoice {
	var out []VariableChoice
	add := func(v *data.Variable, role string) {
		out = append(out, VariableChoice{Name: v.Name, Role: role, Type: v.Type, Values: len(v.Values)})
	}
	if d.ClassVar != nil {
		add(d.ClassVar, roleClass)
	}
	ids := make([]int, 0, len(d.Metas))
	for id := range d.Metas {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	for _, id := range ids {
		add(d.Metas[id], roleMeta)
	}
	for _, v := range d.Attributes {
		if v.IsDiscrete() {
			add(v, roleAttribute)
		}
	}
	return out
}

// VariableListModel is the bubbletea model for picking the variable that
// labels dendrogram leaves.
type VariableListModel struct {
	Choices  []VariableChoice
	Cursor   int
	Selected *VariableChoice
	Height   int
	Offset   int
}

// NewVariableListModel creates a picker over choices.
func NewVariableListModel(choices []VariableChoice) VariableListModel {
	return VariableListModel{Choices: choices, Height: 15}
}

func (m VariableListModel) Init() tea.Cmd {
	return nil
}

func (m VariableListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Choices)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Choices) == 0 {
				return m, tea.Quit
			}
			choice := m.Choices[m.Cursor]
			m.Selected = &choice
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m VariableListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Label Leaves By"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Choices) == 0 {
		b.WriteString(listDimStyle.Render("  no class, meta or discrete attributes"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Choices))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Choices[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		values := "—"
		if c.Values > 0 {
			values = fmt.Sprintf("%d", c.Values)
		}
		rows = append(rows, []string{cursor, c.Name, c.Role, c.Type.String(), values})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Variable", "Role", "Type", "Values").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Choices))))

	return b.String()
}

// pickLabel runs the picker and returns the chosen variable name, or "" when
// the user quits without choosing.
func pickLabel(d *data.Domain) (string, error) {
	choices := labelChoices(d)
	if len(choices) == 0 {
		printWarning("No variable can label the examples")
		return "", nil
	}
	final, err := tea.NewProgram(NewVariableListModel(choices)).Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(VariableListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return "", nil
	}
	return fm.Selected.Name, nil
}
