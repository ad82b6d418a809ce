package terminal

import "github.com/charmbracelet/lipgloss"

type palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color
}

// Ink, brass and lamp oil.
var defaultPalette = palette{
	Text:    lipgloss.Color("#e6dcc8"),
	Muted:   lipgloss.Color("#8a8170"),
	Accent:  lipgloss.Color("#c9a227"),
	Warning: lipgloss.Color("#d9643a"),
	Success: lipgloss.Color("#7fa36b"),
}

// Styles renders shell output.
type Styles struct {
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// DefaultStyles returns the shell's color styles.
func DefaultStyles() Styles {
	p := defaultPalette
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Text:    lipgloss.NewStyle().Foreground(p.Text),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Accent:  lipgloss.NewStyle().Foreground(p.Accent),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		Success: lipgloss.NewStyle().Foreground(p.Success),
	}
}

// PlainStyles renders without escape codes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Title: plain, Text: plain, Muted: plain, Accent: plain, Warning: plain, Success: plain}
}
