package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/depscope/depscope/pkg/graph"
)

// exploreTree opens an interactive terminal view of the dependency tree:
// arrow keys move, enter expands or collapses, q quits.
func exploreTree(g *graph.Graph, root string) error {
	m := newExploreModel(g, root)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

var (
	exploreSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreNormal   = lipgloss.NewStyle().Foreground(colorWhite)
	exploreCyclic   = lipgloss.NewStyle().Foreground(colorYellow)
	exploreHelp     = lipgloss.NewStyle().Foreground(colorDim)
)

// treeRow is one visible line of the explorer. Because the same package can
// appear under several parents, rows are identified by their full ancestry
// path rather than by name.
type treeRow struct {
	name     string
	depth    int
	path     string
	children bool
	cyclic   bool
}

type exploreModel struct {
	g        *graph.Graph
	root     string
	expanded map[string]bool
	rows     []treeRow
	cursor   int
	offset   int
	height   int
}

func newExploreModel(g *graph.Graph, root string) *exploreModel {
	m := &exploreModel{
		g:        g,
		root:     root,
		expanded: map[string]bool{root: true},
		height:   20,
	}
	m.reflow()
	return m
}

// reflow rebuilds the visible row list from the expansion state.
func (m *exploreModel) reflow() {
	m.rows = m.rows[:0]
	m.walk(m.root, 0, m.root, nil)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m *exploreModel) walk(name string, depth int, path string, ancestors []string) {
	deps := m.g.Successors(name)
	m.rows = append(m.rows, treeRow{
		name:     name,
		depth:    depth,
		path:     path,
		children: len(deps) > 0,
	})
	if !m.expanded[path] {
		return
	}
	ancestors = append(ancestors, name)
	for _, dep := range deps {
		childPath := path + "/" + dep
		if contains(ancestors, dep) {
			m.rows = append(m.rows, treeRow{name: dep, depth: depth + 1, path: childPath, cyclic: true})
			continue
		}
		m.walk(dep, depth+1, childPath, ancestors)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m *exploreModel) Init() tea.Cmd { return nil }

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 3 // header and help lines
		if m.height < 1 {
			m.height = 1
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", " ", "right", "l":
			row := m.rows[m.cursor]
			if row.children && !row.cyclic {
				m.expanded[row.path] = !m.expanded[row.path]
				m.reflow()
			}
		case "left", "h":
			row := m.rows[m.cursor]
			if m.expanded[row.path] {
				m.expanded[row.path] = false
				m.reflow()
			}
		}
	}
	return m, nil
}

func (m *exploreModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", styleTitle.Render(fmt.Sprintf("dependencies of %s", m.root)))

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		marker := "  "
		switch {
		case row.cyclic:
			marker = "↺ "
		case row.children && m.expanded[row.path]:
			marker = "▾ "
		case row.children:
			marker = "▸ "
		}

		label := strings.Repeat("  ", row.depth) + marker + row.name
		if row.cyclic {
			label += " (cyclic)"
		}

		style := exploreNormal
		if row.cyclic {
			style = exploreCyclic
		}
		if i == m.cursor {
			style = exploreSelected
		}
		b.WriteString(style.Render(label))
		b.WriteByte('\n')
	}

	b.WriteString(exploreHelp.Render("↑/↓ move · enter expand/collapse · q quit"))
	return b.String()
}
