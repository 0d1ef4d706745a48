package console

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// defaultReportWidth is used when stdout isn't a terminal or its size
// can't be queried (CI logs, piped output, `go test`), matching the
// line length report formatting assumed before width detection existed.
const defaultReportWidth = 120

// Adaptive colors, ported from the teacher's pkg/styles/theme.go: they
// automatically pick a readable variant for light or dark terminal
// backgrounds rather than hard-coding one palette.
var (
	colorCritical = lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF5555"}
	colorHigh     = lipgloss.AdaptiveColor{Light: "#E67E22", Dark: "#FFB86C"}
	colorMedium   = lipgloss.AdaptiveColor{Light: "#B7950B", Dark: "#F1FA8C"}
	colorLow      = lipgloss.AdaptiveColor{Light: "#2980B9", Dark: "#8BE9FD"}
	colorSuccess  = lipgloss.AdaptiveColor{Light: "#27AE60", Dark: "#50FA7B"}
	colorMuted    = lipgloss.AdaptiveColor{Light: "#6C7A89", Dark: "#6272A4"}
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleFailure = lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleHeader  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// severityStyle returns the adaptive-color style for a severity label
// as it appears in hook/issue output ("critical", "high", "medium",
// "low"); unrecognized labels render unstyled.
func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "critical":
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case "high":
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(colorMedium)
	case "low":
		return lipgloss.NewStyle().Foreground(colorLow)
	default:
		return lipgloss.NewStyle()
	}
}

// isTTY reports whether stdout is an interactive terminal. Styling is
// only applied when true, so CI logs and piped output stay plain text.
func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// IsTTY exports isTTY for callers outside this package that need the
// same stdout-is-a-terminal check before writing transient output of
// their own (e.g. a progress spinner).
func IsTTY() bool {
	return isTTY()
}

// reportWidth returns stdout's column width for wrapping report lines,
// falling back to defaultReportWidth when stdout isn't a terminal or
// its size can't be queried.
func reportWidth() int {
	if !isTTY() {
		return defaultReportWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultReportWidth
	}
	return w
}

// applyStyle conditionally renders text with a style depending on TTY status.
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}
