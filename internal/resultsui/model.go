// Package resultsui provides the Bubble Tea live results browser.
package resultsui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/manabcodes/bangladesh-election-poll/internal/catalog"
	"github.com/manabcodes/bangladesh-election-poll/internal/model"
	"github.com/manabcodes/bangladesh-election-poll/internal/tally"
)

const barWidth = 16

const (
	flagGreen = lipgloss.Color("#006A4E")
	flagRed   = lipgloss.Color("#F42A41")
	dimGray   = lipgloss.Color("#5A5A5A")
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder(), true)
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).BorderForeground(flagRed)
	idleTabStyle   = tabStyle.Foreground(lipgloss.Color("#A0A0A0")).BorderForeground(dimGray)
	summaryStyle   = lipgloss.NewStyle().Foreground(flagGreen).Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(dimGray)
	errorStyle     = lipgloss.NewStyle().Foreground(flagRed)
	emptyStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#B8B8B8"))
)

// TallyLoader reads the current tally snapshot.
type TallyLoader interface {
	Load(ctx context.Context) (model.Tally, error)
}

// Model implements the Bubble Tea results UI.
type Model struct {
	loader  TallyLoader
	catalog *catalog.Catalog

	tally     model.Tally
	errMsg    string
	activeTab int
	table     table.Model

	width  int
	height int
}

// NewModel constructs a results UI, starting on the tab of constituency id when set.
func NewModel(loader TallyLoader, c *catalog.Catalog, id string) *Model {
	m := &Model{
		loader:  loader,
		catalog: c,
		table:   table.New(table.WithFocused(true)),
	}
	m.table.SetStyles(tableStyles())
	for i, con := range c.Constituencies {
		if con.ID == id {
			m.activeTab = i
		}
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyTable()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			return m, nil
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := []string{m.renderTabs(), m.renderSummary()}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	con, ok := m.active()
	if ok && tally.TotalVotes(m.tally, con.ID) == 0 {
		lines = append(lines, "", emptyStyle.Render(tally.NoVotesText))
	} else {
		lines = append(lines, m.table.View())
	}
	lines = append(lines, hintStyle.Render("←/→ constituency · ↑/↓ scroll · r refresh · q quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) active() (model.Constituency, bool) {
	if m.activeTab < 0 || m.activeTab >= len(m.catalog.Constituencies) {
		return model.Constituency{}, false
	}
	return m.catalog.Constituencies[m.activeTab], true
}

func (m *Model) moveTab(delta int) {
	count := len(m.catalog.Constituencies)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.applyTable()
}

func (m *Model) refresh() {
	t, err := m.loader.Load(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load tally: %v", err)
		return
	}
	m.errMsg = ""
	m.tally = t
	m.applyTable()
}

func (m *Model) applyTable() {
	con, ok := m.active()
	if !ok {
		return
	}
	cols, rows := buildTableData(m.tally, con.ID, m.catalog.CandidatesFor(con.ID))
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	// SetHeight includes the header rows.
	headerRows := lipgloss.Height(tableStyles().Header.Render("X"))
	height := len(rows) + headerRows
	if m.height > 0 {
		height = minInt(height, maxInt(headerRows+1, m.height-8))
	}
	m.table.SetHeight(height)
	if m.width > 0 {
		m.table.SetWidth(m.width)
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.catalog.Constituencies))
	for i, con := range m.catalog.Constituencies {
		if i == m.activeTab {
			parts = append(parts, activeTabStyle.Render(con.Name))
		} else {
			parts = append(parts, idleTabStyle.Render(con.Name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSummary() string {
	con, ok := m.active()
	if !ok {
		return ""
	}
	total := tally.TotalVotes(m.tally, con.ID)
	return summaryStyle.Render(fmt.Sprintf("%s (%s) · %s: %d", con.Name, con.NameEn, tally.TotalLabel, total))
}

func buildTableData(t model.Tally, id string, candidates []string) ([]table.Column, []table.Row) {
	nameWidth := runewidth.StringWidth("Candidate")
	for _, k := range candidates {
		if w := runewidth.StringWidth(k); w > nameWidth {
			nameWidth = w
		}
	}
	columns := []table.Column{
		{Title: "Candidate", Width: nameWidth},
		{Title: "", Width: barWidth},
		{Title: "Share", Width: 6},
		{Title: "Votes", Width: 6},
	}
	results := tally.Rows(t, id, candidates)
	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, table.Row{
			r.Candidate,
			tally.Bar(r.Percentage, barWidth),
			tally.FormatPercentage(r.Percentage),
			fmt.Sprintf("%d", r.Count),
		})
	}
	return columns, rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(flagGreen).
		PaddingRight(1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(dimGray)
	styles.Cell = lipgloss.NewStyle().PaddingRight(1)
	styles.Selected = lipgloss.NewStyle().Foreground(flagRed).Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
