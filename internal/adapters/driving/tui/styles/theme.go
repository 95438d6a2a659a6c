// Package styles holds the palette and lipgloss styles of the DocFoundry TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette lists the colours the TUI draws with.
type Palette struct {
	Accent    lipgloss.Color // titles, assistant label, focused pane
	Highlight lipgloss.Color // subtitles, user label
	Text      lipgloss.Color
	Dim       lipgloss.Color
	Applied   lipgloss.Color // scope entry that is in effect
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Frame     lipgloss.Color
	BarFill   lipgloss.Color // status bar background
}

// DefaultPalette returns the dark palette used unless a caller supplies one.
func DefaultPalette() Palette {
	return Palette{
		Accent:    lipgloss.Color("#7C3AED"),
		Highlight: lipgloss.Color("#06B6D4"),
		Text:      lipgloss.Color("#CDD6F4"),
		Dim:       lipgloss.Color("#6C7086"),
		Applied:   lipgloss.Color("#A6E3A1"),
		Warning:   lipgloss.Color("#F9E2AF"),
		Error:     lipgloss.Color("#F38BA8"),
		Frame:     lipgloss.Color("#45475A"),
		BarFill:   lipgloss.Color("#181825"),
	}
}

// Styles are the rendered styles shared by the scope, chat and settings views.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style

	// Selected is the cursor row in a scope list.
	Selected lipgloss.Style
	// Active marks the project, knowledge base or document currently applied.
	Active lipgloss.Style

	InputField    lipgloss.Style
	StatusBar     lipgloss.Style
	Border        lipgloss.Style
	FocusedBorder lipgloss.Style

	UserTurn      lipgloss.Style
	AssistantTurn lipgloss.Style
}

// NewStyles builds the styles for p.
func NewStyles(p Palette) *Styles {
	frame := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())

	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(p.Highlight),
		Normal:   lipgloss.NewStyle().Foreground(p.Text),
		Muted:    lipgloss.NewStyle().Foreground(p.Dim),
		Help:     lipgloss.NewStyle().Foreground(p.Dim),
		Error:    lipgloss.NewStyle().Foreground(p.Error),
		Warning:  lipgloss.NewStyle().Foreground(p.Warning),

		Selected: lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Accent),
		Active:   lipgloss.NewStyle().Foreground(p.Applied),

		InputField:    frame.BorderForeground(p.Frame).Padding(0, 1),
		StatusBar:     lipgloss.NewStyle().Foreground(p.Dim).Background(p.BarFill).Padding(0, 1),
		Border:        frame.BorderForeground(p.Frame),
		FocusedBorder: frame.BorderForeground(p.Accent),

		UserTurn:      lipgloss.NewStyle().Bold(true).Foreground(p.Highlight),
		AssistantTurn: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
	}
}

// DefaultStyles returns styles for DefaultPalette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultPalette())
}
