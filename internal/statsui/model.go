// Package statsui provides the Bubble Tea learner dashboard.
package statsui

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/learnhub/internal/state"
	"github.com/verte-zerg/learnhub/internal/stats"
)

const (
	tabProfile = iota
	tabCourses
	tabQuiz
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea dashboard.
type Model struct {
	app *state.App

	report stats.Report

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	courseTable table.Model

	width  int
	height int
}

// NewModel constructs a dashboard over app.
func NewModel(app *state.App) *Model {
	m := &Model{
		app:  app,
		tabs: []string{"Profile", "My Courses", "Quiz"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.courseTable = table.New(
		table.WithColumns(courseColumns(0)),
		table.WithStyles(courseTableStyles()),
		table.WithHeight(10),
	)
	m.refreshReport()
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabCourses {
				m.courseTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabCourses {
				m.courseTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		if m.activeTab == tabCourses {
			var cmd tea.Cmd
			m.courseTable, cmd = m.courseTable.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X")))
	footerHeight = 1
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.courseTable.SetColumns(courseColumns(m.width))
	m.courseTable.SetWidth(m.width)
	m.courseTable.SetHeight(bodyHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabCourses {
		m.courseTable.Focus()
	} else {
		m.courseTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Refresh: r  Quit: q")
}

func (m *Model) renderBody() string {
	if m.activeTab == tabCourses {
		if len(m.courseTable.Rows()) == 0 {
			return "No enrolled or completed courses."
		}
		return tableMutedStyle.Render(m.courseTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) refreshReport() {
	m.report = stats.BuildReport(m.app)
	m.courseTable.SetRows(courseRows(m.report))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabProfile].SetContent(m.renderProfile(width))
	m.viewports[tabQuiz].SetContent(renderQuiz(m.report.Quiz, width))
}

func (m *Model) renderProfile(width int) string {
	p := m.report.Profile
	name := "Guest"
	if user, ok := m.app.Identity.User(); ok {
		name = fmt.Sprintf("%s <%s>", user.Name, user.Email)
	}
	plan := "none"
	if sub, ok := m.app.Subscription.Subscription(); ok {
		plan = string(sub.Plan)
		if !m.app.Subscription.IsSubscribed() {
			plan += " (expired)"
		}
	}
	cards := []string{
		metricCard("Enrolled", fmt.Sprintf("%d", p.Enrolled)),
		metricCard("Completed", fmt.Sprintf("%d", p.Completed)),
		metricCard("Hours", fmt.Sprintf("%.0f", math.Round(p.TotalHours))),
		metricCard("Points", fmt.Sprintf("%d", p.TotalPoints)),
		metricCard("Plan", plan),
	}
	var grid string
	if width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	continueRows := stats.ContinueLearning(m.report.InProgress, 3)
	lines := []string{cardValueStyle.Render(name), grid}
	if len(continueRows) > 0 {
		lines = append(lines, "", cardTitleStyle.Render("Continue learning"))
		for _, r := range continueRows {
			lines = append(lines, fmt.Sprintf("%s %3d%%  %s", stats.ProgressBar(r.Percent, 10), r.Percent, r.Title))
		}
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderQuiz(q stats.QuizOverview, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderQuizOverview(&buf, q, stats.RenderOptions{Width: width}); err != nil {
		return fmt.Sprintf("Failed to render quiz scores: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func courseColumns(width int) []table.Column {
	title := 30
	if width > 0 {
		title = max(16, width-(18+10+8+8+8)-12)
	}
	return []table.Column{
		{Title: "Course", Width: title},
		{Title: "Instructor", Width: 18},
		{Title: "Status", Width: 10},
		{Title: "Lessons", Width: 8},
		{Title: "Progress", Width: 8},
		{Title: "Points", Width: 8},
	}
}

func courseRows(r stats.Report) []table.Row {
	rows := make([]table.Row, 0, len(r.InProgress)+len(r.Completed))
	add := func(c stats.CourseRow, status string) {
		rows = append(rows, table.Row{
			c.Title,
			c.Instructor,
			status,
			fmt.Sprintf("%d/%d", c.Done, c.Lessons),
			fmt.Sprintf("%d%%", c.Percent),
			fmt.Sprintf("%d", c.Points),
		})
	}
	for _, c := range r.InProgress {
		add(c, "learning")
	}
	for _, c := range r.Completed {
		add(c, "completed")
	}
	return rows
}

func courseTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
