package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Styles holds the lipgloss styles for terminal output. When disabled every
// style renders text unchanged and icons degrade to ASCII.
type Styles struct {
	enabled bool

	Header  lipgloss.Style
	Muted   lipgloss.Style
	Good    lipgloss.Style
	Fair    lipgloss.Style
	Poor    lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	IconWarning string
	IconInfo    string
	BarFull     string
	BarEmpty    string
}

// NewStyles builds colored styles when enabled, plain ones otherwise.
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}
	if enabled {
		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
		s.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Good = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		s.Fair = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		s.Poor = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		s.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
		s.IconWarning = "⚠"
		s.IconInfo = "ℹ"
		s.BarFull = "█"
		s.BarEmpty = "░"
		return s
	}
	s.Header = lipgloss.NewStyle()
	s.Muted = lipgloss.NewStyle()
	s.Good = lipgloss.NewStyle()
	s.Fair = lipgloss.NewStyle()
	s.Poor = lipgloss.NewStyle()
	s.Warning = lipgloss.NewStyle()
	s.Info = lipgloss.NewStyle()
	s.IconWarning = "WARN:"
	s.IconInfo = "INFO:"
	s.BarFull = "#"
	s.BarEmpty = "."
	return s
}

// StylesFor enables styling only when w is a terminal.
func StylesFor(w io.Writer) *Styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewStyles(true)
	}
	return NewStyles(false)
}

// Enabled reports whether styling is on.
func (s *Styles) Enabled() bool { return s.enabled }

// ForRatio picks the good, fair or poor style for a score fraction.
func (s *Styles) ForRatio(r float64) lipgloss.Style {
	switch {
	case r >= 0.75:
		return s.Good
	case r >= 0.5:
		return s.Fair
	default:
		return s.Poor
	}
}
