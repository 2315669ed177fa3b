package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Node index
// =============================================================================

// nodeIndex is a layout with its nodes in reading order (level, then y)
// and the adjacency needed by the detail view.
type nodeIndex struct {
	layout   graph.Layout
	rows     []dfd.PlacedNode
	incoming map[string][]dfd.RoutedEdge
	outgoing map[string][]dfd.RoutedEdge
	merges   map[string][]string
}

func newNodeIndex(l graph.Layout) nodeIndex {
	idx := nodeIndex{
		layout:   l,
		rows:     slices.Clone(l.Nodes),
		incoming: make(map[string][]dfd.RoutedEdge),
		outgoing: make(map[string][]dfd.RoutedEdge),
		merges:   make(map[string][]string),
	}
	slices.SortStableFunc(idx.rows, func(a, b dfd.PlacedNode) int {
		return cmp.Or(cmp.Compare(a.Level, b.Level), cmp.Compare(a.Position.Y, b.Position.Y))
	})
	for _, e := range l.Edges {
		idx.outgoing[e.Source] = append(idx.outgoing[e.Source], e)
		idx.incoming[e.Target] = append(idx.incoming[e.Target], e)
	}
	if l.Diagnostics != nil {
		for _, mp := range l.Diagnostics.MergePoints {
			idx.merges[mp.Node] = mp.Flows
		}
	}
	return idx
}

// flags summarises the role of a node in one short word list.
func (idx nodeIndex) flags(n dfd.PlacedNode) string {
	var f []string
	if n.IsSource {
		f = append(f, "source")
	}
	if _, ok := idx.merges[n.ID]; ok {
		f = append(f, "merge")
	}
	if n.IsOutput {
		f = append(f, "output")
	}
	return strings.Join(f, ",")
}

func (idx nodeIndex) row(n dfd.PlacedNode) []string {
	lane := "—"
	if n.Lane >= 0 {
		lane = fmt.Sprint(n.Lane)
	}
	flow := n.FlowID
	if flow == "" {
		flow = "—"
	}
	return []string{
		fmt.Sprint(n.Level),
		n.ID,
		oneLine(n.Label),
		nodeKind(n.Node),
		lane,
		flow,
		fmt.Sprintf("%.0f", n.Position.X),
		fmt.Sprintf("%.0f", n.Position.Y),
		idx.flags(n),
	}
}

var tableHeaders = []string{"Level", "ID", "Label", "Type", "Lane", "Flow", "X", "Y", "Flags"}

// levelTable renders every node as one table row, without colours.
func levelTable(l graph.Layout) string {
	idx := newNodeIndex(l)
	rows := make([][]string, len(idx.rows))
	for i, n := range idx.rows {
		rows[i] = idx.row(n)
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(tableHeaders...).
		Rows(rows...).
		Render()
}

func nodeKind(n dfd.Node) string {
	if n.LogicType != "" {
		return string(n.Type) + "/" + string(n.LogicType)
	}
	return string(n.Type)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " / ")
}

// =============================================================================
// InspectModel - Interactive node browser
// =============================================================================

// InspectModel is the bubbletea model behind `dfdlayout inspect`.
type InspectModel struct {
	idx    nodeIndex
	Cursor int
	Height int
	Offset int
}

// NewInspectModel creates a browser over the nodes of a layout.
func NewInspectModel(l graph.Layout) InspectModel {
	return InspectModel{idx: newNodeIndex(l), Height: 12}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := len(m.idx.rows) - 1
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(last)
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the table chrome and the detail pane.
		m.Height = max(msg.Height-20, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

func (m *InspectModel) moveTo(i int) {
	m.Cursor = max(min(i, len(m.idx.rows)-1), 0)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Current returns the node under the cursor.
func (m InspectModel) Current() (dfd.PlacedNode, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.idx.rows) {
		return dfd.PlacedNode{}, false
	}
	return m.idx.rows[m.Cursor], true
}

func (m InspectModel) View() string {
	var b strings.Builder

	l := m.idx.layout
	b.WriteString(StyleTitle.Render("Layout"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes · %d edges · %d levels", len(l.Nodes), len(l.Edges), l.MaxLevel+1)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  q quit"))
	b.WriteString("\n\n")

	if len(m.idx.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty graph)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.idx.rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		rows = append(rows, m.idx.row(m.idx.rows[i]))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return kindStyle(m.idx.rows[m.Offset+row].Node)
			}
			if col == 0 || col >= 4 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.idx.rows))))
	b.WriteString("\n\n")

	if n, ok := m.Current(); ok {
		b.WriteString(m.detail(n))
	}
	return b.String()
}

// detail describes one node: identity, placement and its edges.
func (m InspectModel) detail(n dfd.PlacedNode) string {
	var b strings.Builder
	line := func(key, value string) {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %-10s ", key)))
		b.WriteString(StyleValue.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(StyleHighlight.Render(oneLine(n.Label)))
	b.WriteString(listDimStyle.Render("  " + n.ID))
	b.WriteString("\n")
	line("type", nodeKind(n.Node))
	line("position", fmt.Sprintf("(%.1f, %.1f)", n.Position.X, n.Position.Y))
	if len(n.Columns) > 0 {
		line("columns", strings.Join(n.Columns, ", "))
	}
	if flows, ok := m.idx.merges[n.ID]; ok {
		line("merges", strings.Join(flows, ", "))
	}
	for _, e := range m.idx.incoming[n.ID] {
		line("from", edgeSummary(e.Source, e))
	}
	for _, e := range m.idx.outgoing[n.ID] {
		line("to", edgeSummary(e.Target, e))
	}
	return b.String()
}

func edgeSummary(other string, e dfd.RoutedEdge) string {
	s := fmt.Sprintf("%s (%s)", other, e.Style)
	if e.Label != "" {
		s += " " + StyleDim.Render(e.Label)
	}
	return s
}
