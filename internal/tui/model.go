// Package tui provides the Bubble Tea poll interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manabcodes/bangladesh-election-poll/internal/poll"
	"github.com/manabcodes/bangladesh-election-poll/internal/tally"
)

// SessionFactory starts a fresh session, as a page reload would.
type SessionFactory func(ctx context.Context) (*poll.Session, error)

// Screen texts.
const (
	subtitleText     = "আপনার মতামত জানান"
	allResultsText   = "সব এলাকার ফলাফল"
	verifyTitle      = "যাচাইকরণ"
	voteTitle        = "আপনার পছন্দ নির্বাচন করুন"
	thanksTitle      = "ধন্যবাদ!"
	thanksText       = "আপনার ভোট সফলভাবে জমা হয়েছে"
	resultsTitle     = "বর্তমান ফলাফল"
	blockedTitle     = "আপনি ইতিমধ্যে ভোট দিয়েছেন"
	blockedText      = "প্রতি ডিভাইস থেকে একবার মাত্র ভোট দেওয়া যাবে।"
	viewResultsLabel = "ফলাফল দেখুন"
	noAnswerHint     = "জমা দেওয়ার আগে একটি উত্তর নির্বাচন করুন"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	chosenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E3B341")).Bold(true)
	cardStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea poll UI.
type Model struct {
	session    *poll.Session
	newSession SessionFactory
	keys       keyMap
	help       help.Model

	cursor int
	notice string

	width  int
	height int
}

// NewModel constructs a poll TUI model around a started session.
func NewModel(session *poll.Session, newSession SessionFactory) *Model {
	return &Model{
		session:    session,
		newSession: newSession,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

// Session returns the session the model drives.
func (m *Model) Session() *poll.Session {
	return m.session
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
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	ctx := context.Background()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Choose):
		m.choose()
	case key.Matches(msg, m.keys.Submit):
		m.submit(ctx)
	case key.Matches(msg, m.keys.Back):
		m.back()
	case key.Matches(msg, m.keys.Reload):
		m.reload(ctx)
	}
}

func (m *Model) optionCount() int {
	s := m.session
	switch s.State() {
	case poll.StateSelect:
		return len(s.Catalog().Constituencies)
	case poll.StateVerify:
		q, _ := s.Question()
		return len(q.Options)
	case poll.StateVote:
		return len(s.Candidates())
	default:
		return 0
	}
}

func (m *Model) moveCursor(delta int) {
	n := m.optionCount()
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) choose() {
	s := m.session
	var err error
	switch s.State() {
	case poll.StateVerify:
		err = s.ChooseAnswer(m.cursor)
	case poll.StateVote:
		candidates := s.Candidates()
		if m.cursor < len(candidates) {
			err = s.ChooseCandidate(candidates[m.cursor])
		}
	default:
		return
	}
	m.report(err)
}

func (m *Model) submit(ctx context.Context) {
	s := m.session
	before := s.State()
	var err error
	switch before {
	case poll.StateSelect:
		if err = s.Refresh(ctx); err != nil {
			break
		}
		cons := s.Catalog().Constituencies
		if m.cursor < len(cons) {
			err = s.SelectConstituency(cons[m.cursor].ID)
		}
	case poll.StateVerify:
		err = s.SubmitAnswer()
	case poll.StateVote:
		err = s.SubmitVote(ctx)
	case poll.StateBlocked:
		err = s.ViewResults()
	default:
		return
	}
	m.report(err)
	if s.State() != before {
		m.cursor = 0
	}
}

func (m *Model) back() {
	s := m.session
	var err error
	switch s.State() {
	case poll.StateVerify:
		err = s.Cancel()
	case poll.StateVote:
		err = s.Back()
	default:
		return
	}
	m.report(err)
	m.cursor = 0
}

func (m *Model) reload(ctx context.Context) {
	if m.session.State() != poll.StateResults || m.newSession == nil {
		return
	}
	next, err := m.newSession(ctx)
	if err != nil {
		m.report(err)
		return
	}
	m.session = next
	m.cursor = 0
	m.notice = ""
}

// report surfaces infrastructure failures. Validation errors are shown from the session.
func (m *Model) report(err error) {
	m.notice = ""
	if errors.Is(err, poll.ErrNoAnswer) {
		m.notice = noAnswerHint
		return
	}
	if err == nil || isValidation(err) {
		return
	}
	logErrf("poll: %v", err)
	m.notice = err.Error()
}

func isValidation(err error) bool {
	return errors.Is(err, poll.ErrWrongAnswer) ||
		errors.Is(err, poll.ErrNoCandidate)
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderScreen()
	if msg := m.session.Error(); msg != "" {
		content += "\n\n" + errorStyle.Render(msg)
	}
	if m.notice != "" {
		content += "\n\n" + errorStyle.Render(m.notice)
	}
	content = cardStyle.Render(content)
	footer := m.help.View(m.keys.forState(m.session.State(), m.hasChoice()))
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) hasChoice() bool {
	switch m.session.State() {
	case poll.StateVerify:
		_, ok := m.session.Answer()
		return ok
	case poll.StateVote:
		// The vote screen reports a missing candidate itself.
		return true
	default:
		return false
	}
}

func (m *Model) renderScreen() string {
	switch m.session.State() {
	case poll.StateSelect:
		return m.renderSelect()
	case poll.StateVerify:
		return m.renderVerify()
	case poll.StateVote:
		return m.renderVote()
	case poll.StateResults:
		return m.renderResults()
	case poll.StateBlocked:
		return m.renderBlocked()
	default:
		return ""
	}
}

func (m *Model) renderSelect() string {
	s := m.session
	c := s.Catalog()
	t := s.Tally()
	lines := []string{
		titleStyle.Render(c.Title),
		subtitleStyle.Render(subtitleText),
		"",
	}
	for i, con := range c.Constituencies {
		label := fmt.Sprintf("%s  %s  %s: %d", con.Name, subtitleStyle.Render(con.NameEn), tally.TotalLabel, tally.TotalVotes(t, con.ID))
		lines = append(lines, m.optionLine(i, false, label))
	}
	lines = append(lines, "", titleStyle.Render(allResultsText))
	for _, con := range c.Constituencies {
		lines = append(lines, "")
		lines = append(lines, tally.ResultLines(t, con, c.CandidatesFor(con.ID))...)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderVerify() string {
	s := m.session
	con, _ := s.Constituency()
	q, _ := s.Question()
	answer, hasAnswer := s.Answer()
	lines := []string{
		titleStyle.Render(verifyTitle),
		subtitleStyle.Render(con.Name),
		"",
		q.Prompt,
		"",
	}
	for i, opt := range q.Options {
		lines = append(lines, m.optionLine(i, hasAnswer && answer == i, opt))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderVote() string {
	s := m.session
	con, _ := s.Constituency()
	chosen, hasChosen := s.Candidate()
	lines := []string{
		titleStyle.Render(voteTitle),
		subtitleStyle.Render(con.Name),
		"",
	}
	for i, k := range s.Candidates() {
		lines = append(lines, m.optionLine(i, hasChosen && chosen == k, k))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderResults() string {
	s := m.session
	c := s.Catalog()
	t := s.Tally()
	var lines []string
	if s.Voted() {
		lines = append(lines, chosenStyle.Render("✓ "+thanksTitle), subtitleStyle.Render(thanksText), "")
	}
	lines = append(lines, titleStyle.Render(resultsTitle))
	for _, id := range s.ResultIDs() {
		con, ok := c.Constituency(id)
		if !ok {
			continue
		}
		lines = append(lines, "")
		lines = append(lines, tally.ResultLines(t, con, c.CandidatesFor(id))...)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBlocked() string {
	return strings.Join([]string{
		warnStyle.Render("! " + blockedTitle),
		subtitleStyle.Render(blockedText),
		"",
		cursorStyle.Render("> " + viewResultsLabel),
	}, "\n")
}

func (m *Model) optionLine(index int, chosen bool, label string) string {
	marker := "[ ]"
	if chosen {
		marker = chosenStyle.Render("[✓]")
	}
	prefix := "  "
	style := pendingStyle
	if index == m.cursor {
		prefix = cursorStyle.Render("> ")
		style = cursorStyle
	}
	if m.session.State() == poll.StateSelect {
		return prefix + style.Render(label)
	}
	return prefix + marker + " " + style.Render(label)
}

func logErrf(format string, args ...any) {
	log.Printf(format, args...)
}
