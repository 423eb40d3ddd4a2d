package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

type runeRange struct {
	start int
	end   int
}

// buildStyledRunes styles text with base and paints every case-insensitive
// occurrence of query with match.
func buildStyledRunes(text []rune, query string, base, match lipgloss.Style) []styledRune {
	matches := findMatches(text, []rune(strings.TrimSpace(query)))
	out := make([]styledRune, 0, len(text))
	next := 0
	for i, r := range text {
		for next < len(matches) && i >= matches[next].end {
			next++
		}
		style := base
		if next < len(matches) && i >= matches[next].start {
			style = match
		}
		displayed := r
		if r == '\n' || r == '\t' {
			displayed = ' '
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: unicode.IsSpace(r),
		})
	}
	return out
}

func findMatches(text, query []rune) []runeRange {
	if len(query) == 0 || len(query) > len(text) {
		return nil
	}
	var out []runeRange
	for i := 0; i+len(query) <= len(text); {
		if equalFold(text[i:i+len(query)], query) {
			out = append(out, runeRange{start: i, end: i + len(query)})
			i += len(query)
			continue
		}
		i++
	}
	return out
}

func equalFold(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines of at most width cells, preferring the
// last space on the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
