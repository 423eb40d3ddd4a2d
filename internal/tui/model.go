// Package tui provides the Bubble Tea catalog browser and lesson player.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/learnhub/internal/model"
	"github.com/verte-zerg/learnhub/internal/state"
	"github.com/verte-zerg/learnhub/internal/stats"
)

type screen int

const (
	screenCatalog screen = iota
	screenCourse
	screenPlayer
)

// Model implements the Bubble Tea learning UI.
type Model struct {
	app    *state.App
	config model.Config
	styles styles

	width  int
	height int
	screen screen

	search      textinput.Model
	searching   bool
	categories  []string
	categoryIdx int
	courses     []model.Course
	courseTable table.Model

	course      model.Course
	lessonTable table.Model

	player player
	bar    progress.Model

	status string
	errMsg string
}

// NewModel constructs the learning UI over app.
func NewModel(app *state.App, cfg model.Config) *Model {
	m := &Model{
		app:    app,
		config: cfg,
		styles: newStyles(app.Prefs.Theme()),
	}
	m.search = textinput.New()
	m.search.Prompt = "Search: "
	m.search.Placeholder = "title, instructor or topic"
	m.search.SetValue(app.Catalog.SearchQuery())

	m.categories = []string{""}
	for _, c := range app.Catalog.Categories() {
		m.categories = append(m.categories, c.Name)
	}
	selected := app.Catalog.SelectedCategory()
	for i, name := range m.categories {
		if name == selected {
			m.categoryIdx = i
		}
	}

	m.courseTable = table.New(
		table.WithColumns(courseColumns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.lessonTable = table.New(
		table.WithColumns(lessonColumns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.bar = m.newBar()
	m.applyStyles()
	m.refreshCourses()

	if c, ok := app.Catalog.CurrentCourse(); ok {
		m.openCourse(c)
	}
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
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stopPlayer()
			return m, tea.Quit
		}
		m.errMsg = ""
		switch m.screen {
		case screenPlayer:
			return m.updatePlayer(msg)
		case screenCourse:
			return m.updateCourse(msg)
		default:
			return m.updateCatalog(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	var body string
	switch m.screen {
	case screenPlayer:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderPlayer())
	case screenCourse:
		body = fitLines(m.lessonTable.View(), m.width, bodyHeight)
	default:
		body = m.renderCatalogBody(bodyHeight)
	}
	return strings.Join([]string{padLines(header, m.width), body, padLines(footer, m.width)}, "\n")
}

func (m *Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			m.courseTable.Focus()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.app.Catalog.SetSearchQuery(m.search.Value())
		m.refreshCourses()
		return m, cmd
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.courseTable.Blur()
		return m, m.search.Focus()
	case "c":
		m.cycleCategory(1)
		return m, nil
	case "C":
		m.cycleCategory(-1)
		return m, nil
	case "t":
		m.toggleTheme()
		return m, nil
	case "e":
		if c, ok := m.selectedCourse(); ok {
			m.enroll(c)
			m.refreshCourses()
		}
		return m, nil
	case "enter":
		if c, ok := m.selectedCourse(); ok {
			m.openCourse(c)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.courseTable, cmd = m.courseTable.Update(msg)
	return m, cmd
}

func (m *Model) updateCourse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = screenCatalog
		m.refreshCourses()
		m.updateLayout()
		return m, nil
	case "t":
		m.toggleTheme()
		return m, nil
	case "e":
		m.enroll(m.course)
		m.refreshLessons()
		return m, nil
	case "enter":
		idx := m.lessonTable.Cursor()
		if idx < 0 || idx >= len(m.course.Curriculum) {
			return m, nil
		}
		if !m.app.Catalog.IsEnrolled(m.course.ID) {
			m.errMsg = "Enroll with e to start lessons."
			return m, nil
		}
		return m, m.startLesson(m.course.Curriculum[idx])
	}
	var cmd tea.Cmd
	m.lessonTable, cmd = m.lessonTable.Update(msg)
	return m, cmd
}

func (m *Model) selectedCourse() (model.Course, bool) {
	idx := m.courseTable.Cursor()
	if idx < 0 || idx >= len(m.courses) {
		return model.Course{}, false
	}
	return m.courses[idx], true
}

func (m *Model) enroll(c model.Course) {
	if m.app.Catalog.IsEnrolled(c.ID) {
		m.status = fmt.Sprintf("Already enrolled in %s.", c.Title)
		return
	}
	m.app.Catalog.Enroll(c.ID)
	m.app.Lessons.CalculateProgress(c.ID, len(c.Curriculum))
	m.status = fmt.Sprintf("Enrolled in %s.", c.Title)
}

func (m *Model) openCourse(c model.Course) {
	m.course = c
	m.app.Catalog.SetCurrentCourse(c.ID)
	if m.app.Catalog.IsEnrolled(c.ID) {
		m.app.Lessons.CalculateProgress(c.ID, len(c.Curriculum))
	}
	m.screen = screenCourse
	m.status = ""
	m.refreshLessons()
	m.updateLayout()
}

func (m *Model) cycleCategory(delta int) {
	count := len(m.categories)
	m.categoryIdx = (m.categoryIdx + delta + count) % count
	m.app.Catalog.SetSelectedCategory(m.categories[m.categoryIdx])
	m.refreshCourses()
}

func (m *Model) toggleTheme() {
	theme := m.app.Prefs.ToggleTheme()
	m.styles = newStyles(theme)
	m.applyStyles()
	m.status = fmt.Sprintf("Theme: %s", theme)
}

func (m *Model) applyStyles() {
	ts := m.styles.table()
	m.courseTable.SetStyles(ts)
	m.lessonTable.SetStyles(ts)
	m.search.PromptStyle = m.styles.badge
	m.search.TextStyle = m.styles.text
	width := m.bar.Width
	m.bar = m.newBar()
	m.bar.Width = width
}

func (m *Model) newBar() progress.Model {
	return progress.New(
		progress.WithSolidFill(string(m.styles.palette.accent)),
		progress.WithoutPercentage(),
	)
}

func (m *Model) refreshCourses() {
	m.courses = m.app.Catalog.Filtered()
	rows := make([]table.Row, 0, len(m.courses))
	for _, c := range m.courses {
		rows = append(rows, table.Row{
			m.courseMark(c.ID),
			c.Title,
			c.Instructor,
			c.Category,
			c.Level,
			c.Duration,
			stats.FormatPrice(c.Price),
		})
	}
	m.courseTable.SetRows(rows)
	if m.courseTable.Cursor() >= len(rows) {
		m.courseTable.SetCursor(max(0, len(rows)-1))
	}
}

func (m *Model) courseMark(id string) string {
	switch {
	case m.app.Catalog.IsCompleted(id):
		return "x"
	case m.app.Catalog.IsEnrolled(id):
		return "*"
	}
	return ""
}

func (m *Model) refreshLessons() {
	cp, _ := m.app.Lessons.CourseProgress(m.course.ID)
	fractions := stats.LessonFractions(m.course, cp)
	rows := make([]table.Row, 0, len(m.course.Curriculum))
	for i, lesson := range m.course.Curriculum {
		mark := ""
		switch {
		case fractions[i] >= 1:
			mark = "x"
		case lesson.ID == cp.CurrentLessonID:
			mark = ">"
		}
		rows = append(rows, table.Row{
			mark,
			lesson.Title,
			lesson.Duration,
			fmt.Sprintf("%d%%", int(math.Round(fractions[i]*100))),
		})
	}
	m.lessonTable.SetRows(rows)
	if m.lessonTable.Cursor() >= len(rows) {
		m.lessonTable.SetCursor(max(0, len(rows)-1))
	}
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	headerHeight := lipgloss.Height(m.renderHeader())
	footerHeight := lipgloss.Height(m.renderFooter())
	bodyHeight := max(1, m.height-headerHeight-footerHeight)

	m.courseTable.SetColumns(courseColumns(m.width))
	m.courseTable.SetWidth(m.width)
	m.courseTable.SetHeight(bodyHeight)
	m.lessonTable.SetColumns(lessonColumns(m.width))
	m.lessonTable.SetWidth(m.width)
	m.lessonTable.SetHeight(bodyHeight)

	m.search.Width = max(10, m.width-lipgloss.Width(m.search.Prompt)-2)
	m.bar.Width = max(10, min(60, m.width-10))
}

func courseColumns(width int) []table.Column {
	title := 28
	if width > 0 {
		title = max(16, width-(2+18+16+13+9+8)-14)
	}
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Course", Width: title},
		{Title: "Instructor", Width: 18},
		{Title: "Category", Width: 16},
		{Title: "Level", Width: 13},
		{Title: "Duration", Width: 9},
		{Title: "Price", Width: 8},
	}
}

func lessonColumns(width int) []table.Column {
	title := 36
	if width > 0 {
		title = max(16, width-(2+9+9)-8)
	}
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Lesson", Width: title},
		{Title: "Duration", Width: 9},
		{Title: "Watched", Width: 9},
	}
}

func (m *Model) renderHeader() string {
	switch m.screen {
	case screenCourse, screenPlayer:
		return m.renderCourseHeader()
	}
	chips := make([]string, 0, len(m.categories))
	for i, name := range m.categories {
		if name == "" {
			name = "All"
		}
		if i == m.categoryIdx {
			chips = append(chips, m.styles.chipOn.Render(name))
		} else {
			chips = append(chips, m.styles.chip.Render(name))
		}
	}
	title := m.styles.title.Render("LearnHub")
	if user, ok := m.app.Identity.User(); ok {
		title += m.styles.pending.Render("  " + user.Name)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, chips...)
	return lipgloss.JoinVertical(lipgloss.Left, title, row, m.search.View())
}

func (m *Model) renderCourseHeader() string {
	c := m.course
	status := "not enrolled"
	switch {
	case m.app.Catalog.IsCompleted(c.ID):
		status = m.styles.done.Render("completed")
	case m.app.Catalog.IsEnrolled(c.ID):
		status = m.styles.badge.Render("enrolled")
	}
	cp, _ := m.app.Lessons.CourseProgress(c.ID)
	lines := []string{
		m.styles.title.Render(c.Title) + "  " + status,
		m.styles.pending.Render(fmt.Sprintf("%s | %s | %s | %.1f (%d reviews) | %s",
			c.Instructor, c.Level, c.Duration, c.Rating, c.Reviews, stats.FormatPrice(c.Price))),
	}
	if m.screen == screenCourse && c.Description != "" {
		contentWidth := max(1, int(float64(m.width)*0.70))
		runes := buildStyledRunes([]rune(c.Description), m.app.Catalog.SearchQuery(), m.styles.text, m.styles.highlight)
		lines = append(lines, wrapStyledRunes(runes, contentWidth))
	}
	summary := fmt.Sprintf("Progress %d%%", cp.ProgressPercentage())
	if len(c.Tasks) > 0 {
		tasks, _ := m.app.Tasks.CourseTaskProgress(c.ID)
		summary += fmt.Sprintf("  Tasks %d/%d  %d pts", len(tasks.CompletedTasks), len(c.Tasks), tasks.TotalPoints())
	}
	lines = append(lines, m.styles.badge.Render(summary))
	return strings.Join(lines, "\n")
}

func (m *Model) renderCatalogBody(height int) string {
	if len(m.courses) == 0 {
		return fitLines(m.styles.pending.Render("No courses match."), m.width, height)
	}
	return fitLines(m.courseTable.View(), m.width, height)
}

func (m *Model) renderFooter() string {
	enrolled := len(m.app.Catalog.Enrolled())
	completed := len(m.app.Catalog.Completed())
	segments := []string{
		fmt.Sprintf("Enrolled %d", enrolled),
		fmt.Sprintf("Completed %d", completed),
		fmt.Sprintf("Points %d", m.app.Tasks.TotalPoints()),
	}
	if m.app.Subscription.HasPremiumAccess() {
		segments = append(segments, "Premium")
	}
	footer := m.styles.footer.Render(strings.Join(segments, "  ") + "  " + m.renderHelp())
	switch {
	case m.errMsg != "":
		footer += "\n" + m.styles.errorText.Render(m.errMsg)
	case m.status != "":
		footer += "\n" + m.styles.badge.Render(m.status)
	}
	return footer
}

func (m *Model) renderHelp() string {
	switch m.screen {
	case screenPlayer:
		return "Pause: space  Finish: f  Next: n  Back: esc"
	case screenCourse:
		return "Play: enter  Enroll: e  Theme: t  Back: esc  Quit: q"
	}
	if m.searching {
		return "Done: enter/esc"
	}
	return "Search: /  Category: c  Enroll: e  Open: enter  Theme: t  Quit: q"
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
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
