package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linkviz/link/pkg/algorithms"
	"github.com/linkviz/link/pkg/export"
	"github.com/linkviz/link/pkg/graph"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAFF")).
			MarginLeft(2).
			MarginTop(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#00AAFF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF88")).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	overviewView view = iota
	rankingView
	communityView
)

var viewNames = []string{"Overview", "Top Nodes", "Communities"}

type keyMap struct {
	Tab  key.Binding
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Up, k.Down, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Up, k.Down, k.Quit}}
}

type model struct {
	g           *graph.Graph
	stats       graph.Statistics
	currentView view
	rankTable   table.Model
	commTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
}

func initialModel(g *graph.Graph) model {
	m := model{
		g:     g,
		stats: g.Stats(),
		help:  help.New(),
		keys:  keys,
	}
	m.rankTable = buildRankTable(g)
	m.commTable = buildCommunityTable(g)
	return m
}

func buildRankTable(g *graph.Graph) table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Key", Width: 30},
		{Title: "PageRank", Width: 12},
		{Title: "Degree", Width: 8},
	}

	var rows []table.Row
	if pr, err := algorithms.PageRank(g, algorithms.DefaultPageRankOptions()); err == nil {
		for i, ranked := range pr.TopNodes {
			degree := len(g.AdjacentEdges(ranked.NodeID))
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", i+1),
				ranked.Key,
				fmt.Sprintf("%.5f", ranked.Score),
				fmt.Sprintf("%d", degree),
			})
		}
	}

	return styledTable(columns, rows)
}

func buildCommunityTable(g *graph.Graph) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Size", Width: 8},
		{Title: "Density", Width: 10},
		{Title: "Members", Width: 40},
	}

	var rows []table.Row
	if cc, err := algorithms.ConnectedComponents(g); err == nil {
		for _, community := range cc.Communities {
			members := make([]string, 0, len(community.Nodes))
			for _, nodeID := range community.Nodes {
				if len(members) >= 5 {
					members = append(members, "...")
					break
				}
				if node, err := g.GetNode(nodeID); err == nil {
					members = append(members, node.Key)
				}
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", community.ID),
				fmt.Sprintf("%d", community.Size),
				fmt.Sprintf("%.3f", community.Density),
				strings.Join(members, ", "),
			})
		}
	}

	return styledTable(columns, rows)
}

func styledTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00AAFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#00AAFF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % view(len(viewNames))
		}
	}

	switch m.currentView {
	case rankingView:
		m.rankTable, cmd = m.rankTable.Update(msg)
	case communityView:
		m.commTable, cmd = m.commTable.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Link Graph Explorer"))
	b.WriteString("\n")

	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.currentView {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = inactiveTabStyle.Render(name)
		}
	}
	b.WriteString(contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...)))
	b.WriteString("\n")

	switch m.currentView {
	case overviewView:
		b.WriteString(contentStyle.Render(m.overview()))
	case rankingView:
		b.WriteString(contentStyle.Render(m.rankTable.View()))
	case communityView:
		b.WriteString(contentStyle.Render(m.commTable.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m model) overview() string {
	direction := "undirected"
	if m.stats.Directed {
		direction = "directed"
	}
	content := fmt.Sprintf(
		"Nodes:           %d\nEdges:           %d\nDirection:       %s\nDensity:         %.4f\nAvg degree:      %.2f\nMax degree:      %d\nSelf loops:      %d\nIsolated nodes:  %d",
		m.stats.NodeCount,
		m.stats.EdgeCount,
		direction,
		m.stats.Density,
		m.stats.AvgDegree,
		m.stats.MaxDegree,
		m.stats.SelfLoops,
		m.stats.IsolatedNodes,
	)
	return statsBoxStyle.Render(content)
}

func main() {
	snapshot := flag.String("snapshot", "", "Path to a .snap file written by link-import or the export API")
	flag.Parse()

	if *snapshot == "" {
		fmt.Println("Usage: link-tui --snapshot graph.snap")
		os.Exit(1)
	}

	g, _, err := export.LoadSnapshot(*snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load snapshot: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(g), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
