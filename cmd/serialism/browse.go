package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3C3C5A"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// visibleLine is a node at its indentation depth in the expanded view.
type visibleLine struct {
	node  *node
	depth int
}

type browseModel struct {
	root     *node
	filename string
	lines    []visibleLine
	viewport viewport.Model
	selected int
	ready    bool
}

func newBrowseModel(filename string, root *node) *browseModel {
	m := &browseModel{root: root, filename: filename}
	m.flatten()
	return m
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

// flatten rebuilds the list of visible lines from the expansion state.
func (m *browseModel) flatten() {
	m.lines = m.lines[:0]
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		m.lines = append(m.lines, visibleLine{node: n, depth: depth})
		if !n.expanded {
			return
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(m.root, 0)
	if m.selected >= len(m.lines) {
		m.selected = len(m.lines) - 1
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 3
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.lines)-1 {
				m.selected++
			}

		case "enter", " ":
			n := m.lines[m.selected].node
			if n.container() {
				n.expanded = !n.expanded
				m.flatten()
			}

		case "left", "h":
			n := m.lines[m.selected].node
			if n.container() && n.expanded {
				n.expanded = false
				m.flatten()
			}

		case "right", "l":
			n := m.lines[m.selected].node
			if n.container() && !n.expanded {
				n.expanded = true
				m.flatten()
			}

		case "home", "g":
			m.selected = 0

		case "end", "G":
			m.selected = len(m.lines) - 1
		}
	}

	if m.ready {
		m.viewport.SetContent(m.content())
		m.follow()
	}
	return m, nil
}

// follow scrolls the viewport so the selected line stays visible.
func (m *browseModel) follow() {
	switch {
	case m.selected < m.viewport.YOffset:
		m.viewport.SetYOffset(m.selected)
	case m.selected >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.selected - m.viewport.Height + 1)
	}
}

func (m *browseModel) content() string {
	var b strings.Builder
	for i, l := range m.lines {
		marker := "  "
		if l.node.container() {
			marker = "▸ "
			if l.node.expanded {
				marker = "▾ "
			}
		}
		row := strings.Repeat("  ", l.depth) + marker + l.node.line()
		if i == m.selected {
			row = selectedStyle.Render(row)
		}
		b.WriteString(row)
		if i < len(m.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *browseModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("serialism"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter toggle • ←/→ collapse/expand • q quit"))
	return b.String()
}

func runBrowse(filename string, root *node) error {
	p := tea.NewProgram(newBrowseModel(filename, root), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
