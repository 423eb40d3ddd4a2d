package stats

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	minBarWidth         = 10
	maxBarWidth         = 40
	barFill             = "#"
	barEmpty            = "-"
	colorDone           = "\x1b[32m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// ProgressBar renders pct as a fixed-width bar such as "[#####-----]".
func ProgressBar(pct, width int) string {
	if width < 1 {
		width = 1
	}
	pct = max(0, min(pct, 100))
	filled := pct * width / 100
	return "[" + strings.Repeat(barFill, filled) + strings.Repeat(barEmpty, width-filled) + "]"
}

// BarWidthFor picks a bar width that leaves room for labels of labelWidth cells
// within totalWidth.
func BarWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	width := totalWidth - labelWidth - 2
	if width < minBarWidth {
		return minBarWidth
	}
	if width > maxBarWidth {
		return maxBarWidth
	}
	return width
}

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func colorize(s string, pct int, useColor bool) string {
	if !useColor || pct < 100 {
		return s
	}
	return colorDone + s + colorReset
}
