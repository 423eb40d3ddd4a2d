package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/learnhub/internal/model"
)

type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	faint   lipgloss.Color
	accent  lipgloss.Color
	success lipgloss.Color
	danger  lipgloss.Color
}

var (
	darkPalette = palette{
		text:    lipgloss.Color("#F0F0F0"),
		muted:   lipgloss.Color("#8C8C8C"),
		faint:   lipgloss.Color("#6E6E6E"),
		accent:  lipgloss.Color("#C89A3A"),
		success: lipgloss.Color("#52C41A"),
		danger:  lipgloss.Color("#FF4D4F"),
	}
	lightPalette = palette{
		text:    lipgloss.Color("#1F1F1F"),
		muted:   lipgloss.Color("#595959"),
		faint:   lipgloss.Color("#8C8C8C"),
		accent:  lipgloss.Color("#4A6CF7"),
		success: lipgloss.Color("#389E0D"),
		danger:  lipgloss.Color("#CF1322"),
	}
)

type styles struct {
	palette   palette
	title     lipgloss.Style
	text      lipgloss.Style
	pending   lipgloss.Style
	highlight lipgloss.Style
	footer    lipgloss.Style
	errorText lipgloss.Style
	badge     lipgloss.Style
	done      lipgloss.Style
	chip      lipgloss.Style
	chipOn    lipgloss.Style
}

func newStyles(theme model.Theme) styles {
	p := lightPalette
	if theme == model.ThemeDark {
		p = darkPalette
	}
	return styles{
		palette:   p,
		title:     lipgloss.NewStyle().Foreground(p.text).Bold(true),
		text:      lipgloss.NewStyle().Foreground(p.text),
		pending:   lipgloss.NewStyle().Foreground(p.muted),
		highlight: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		footer:    lipgloss.NewStyle().Foreground(p.faint),
		errorText: lipgloss.NewStyle().Foreground(p.danger),
		badge:     lipgloss.NewStyle().Foreground(p.accent),
		done:      lipgloss.NewStyle().Foreground(p.success),
		chip: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(p.faint),
		chipOn: lipgloss.NewStyle().
			Foreground(p.text).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(p.accent),
	}
}

func (s styles) table() table.Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(s.palette.faint).
		BorderBottom(true).
		Bold(true).
		Foreground(s.palette.text)
	ts.Cell = ts.Cell.Foreground(s.palette.muted)
	ts.Selected = ts.Selected.Foreground(s.palette.accent).Bold(true)
	return ts
}
