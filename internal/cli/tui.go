package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tablescope/pkg/hierarchy"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LeafListModel - Interactive treemap leaf selection
// =============================================================================

// Leaf is one selectable treemap cell.
type Leaf struct {
	Key   string // path key, e.g. "gender=M/outcome=1"
	Label string // display path, e.g. "gender: M › outcome: 1"
	Value int
	Share float64 // fraction of all records
}

// LeavesOf lists the leaves of root in display order.
func LeavesOf(root *hierarchy.Node) []Leaf {
	if root == nil {
		return nil
	}
	var out []Leaf
	for _, n := range hierarchy.Leaves(root) {
		steps := hierarchy.Path(root, n)
		labels := make([]string, len(steps))
		for i, s := range steps {
			labels[i] = s.Attr + ": " + s.Name
		}
		share := 0.0
		if root.Value > 0 {
			share = float64(n.Value) / float64(root.Value)
		}
		out = append(out, Leaf{
			Key:   hierarchy.PathKey(steps),
			Label: strings.Join(labels, " › "),
			Value: n.Value,
			Share: share,
		})
	}
	return out
}

// LeafListModel is the bubbletea model for picking the highlighted leaf.
type LeafListModel struct {
	Leaves   []Leaf
	Cursor   int
	Selected *Leaf
	Height   int
	Offset   int
}

// currentKey resolves a --select value, key or bare name, to the path key
// of the leaf it selects. It returns "" when nothing matches.
func currentKey(root *hierarchy.Node, selection string) string {
	if root == nil || selection == "" {
		return ""
	}
	leaf, ok := hierarchy.Find(root, selection)
	if !ok {
		return ""
	}
	return hierarchy.PathKey(hierarchy.Path(root, leaf))
}

// NewLeafListModel creates a leaf list model. The cursor starts on the
// leaf whose key is current, if any.
func NewLeafListModel(leaves []Leaf, current string) LeafListModel {
	m := LeafListModel{Leaves: leaves, Height: 15}
	for i, l := range leaves {
		if current != "" && l.Key == current {
			m.Cursor = i
			break
		}
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m LeafListModel) Init() tea.Cmd {
	return nil
}

func (m LeafListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Leaves)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if len(m.Leaves) == 0 {
				return m, nil
			}
			m.Cursor = len(m.Leaves) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		case "enter":
			if len(m.Leaves) == 0 {
				return m, nil
			}
			leaf := m.Leaves[m.Cursor]
			m.Selected = &leaf
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LeafListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Leaf"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Leaves) {
		end = len(m.Leaves)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		l := m.Leaves[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, l.Label, fmt.Sprintf("%d", l.Value), fmt.Sprintf("%.1f%%", l.Share*100)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Leaf", "Records", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Align(lipgloss.Right)
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Leaves))))

	return b.String()
}
