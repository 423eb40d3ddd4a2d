package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/learnhub/internal/catalog"
	"github.com/verte-zerg/learnhub/internal/model"
)

const (
	defaultSampleInterval = time.Second
	defaultLessonSeconds  = 600
)

type tickMsg struct {
	seq int
}

// player simulates video playback: every sample advances the watched time by
// one interval and reports it to the lesson store.
type player struct {
	lesson  model.Lesson
	watched float64
	total   float64
	playing bool
	seq     int
}

// LessonSeconds returns the nominal length of lesson, falling back to fallback
// seconds when its duration label cannot be parsed.
func LessonSeconds(lesson model.Lesson, fallback int) float64 {
	if secs, ok := catalog.ParseClock(lesson.Duration); ok && secs > 0 {
		return float64(secs)
	}
	if fallback <= 0 {
		fallback = defaultLessonSeconds
	}
	return float64(fallback)
}

func (m *Model) sampleInterval() time.Duration {
	if m.config.SampleInterval <= 0 {
		return defaultSampleInterval
	}
	return m.config.SampleInterval
}

func (m *Model) tick() tea.Cmd {
	seq := m.player.seq
	return tea.Tick(m.sampleInterval(), func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

func (m *Model) startLesson(lesson model.Lesson) tea.Cmd {
	m.stopPlayer()
	total := LessonSeconds(lesson, m.config.LessonSeconds)
	watched := 0.0
	if lp, ok := m.app.Lessons.LessonProgress(m.course.ID, lesson.ID); ok && lp.WatchedDuration < total {
		watched = lp.WatchedDuration
	}
	m.app.Lessons.SetCurrentLesson(m.course.ID, lesson.ID)
	m.player = player{
		lesson:  lesson,
		watched: watched,
		total:   total,
		playing: true,
		seq:     m.player.seq + 1,
	}
	m.screen = screenPlayer
	m.status = ""
	m.updateLayout()
	return m.tick()
}

// stopPlayer invalidates any pending tick so a stale sample cannot land after
// the player was paused or closed.
func (m *Model) stopPlayer() {
	m.player.playing = false
	m.player.seq++
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	p := &m.player
	if m.screen != screenPlayer || !p.playing || msg.seq != p.seq {
		return nil
	}
	p.watched = min(p.watched+m.sampleInterval().Seconds(), p.total)
	m.app.Lessons.UpdateLessonProgress(m.course.ID, p.lesson.ID, p.watched, p.total)
	if p.watched >= p.total {
		m.stopPlayer()
		m.status = fmt.Sprintf("Finished %s.", p.lesson.Title)
		return nil
	}
	return m.tick()
}

func (m *Model) updatePlayer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "p":
		if m.player.playing {
			m.stopPlayer()
			return m, nil
		}
		if m.player.watched >= m.player.total {
			return m, nil
		}
		m.player.playing = true
		m.player.seq++
		return m, m.tick()
	case "f":
		m.stopPlayer()
		m.player.watched = m.player.total
		m.app.Lessons.CompleteLesson(m.course.ID, m.player.lesson.ID)
		m.status = fmt.Sprintf("Finished %s.", m.player.lesson.Title)
		return m, nil
	case "n":
		if next, ok := m.nextLesson(); ok {
			return m, m.startLesson(next)
		}
		m.errMsg = "Last lesson of the course."
		return m, nil
	case "esc", "backspace", "q":
		m.stopPlayer()
		m.screen = screenCourse
		m.refreshLessons()
		m.updateLayout()
		return m, nil
	}
	return m, nil
}

func (m *Model) nextLesson() (model.Lesson, bool) {
	for i, lesson := range m.course.Curriculum {
		if lesson.ID == m.player.lesson.ID && i+1 < len(m.course.Curriculum) {
			return m.course.Curriculum[i+1], true
		}
	}
	return model.Lesson{}, false
}

func (m *Model) renderPlayer() string {
	p := m.player
	state := "Paused"
	switch {
	case m.app.Lessons.IsLessonCompleted(m.course.ID, p.lesson.ID) && p.watched >= p.total:
		state = m.styles.done.Render("Completed")
	case p.playing:
		state = m.styles.badge.Render("Playing")
	}
	fraction := 0.0
	if p.total > 0 {
		fraction = p.watched / p.total
	}
	lines := []string{
		m.styles.title.Render(p.lesson.Title),
		"",
		m.bar.ViewAs(fraction),
		m.styles.pending.Render(fmt.Sprintf("%s / %s  %s", formatClock(p.watched), formatClock(p.total), state)),
	}
	return strings.Join(lines, "\n")
}

func formatClock(seconds float64) string {
	total := int(seconds)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
