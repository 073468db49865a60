package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/sampleclean/internal/term"
)

// styles renders the fatal-error block. With colors disabled every style
// is the identity, so piped output stays plain.
type styles struct {
	enabled bool
	label   lipgloss.Style
	hint    lipgloss.Style
}

func newStyles() styles {
	return styles{
		enabled: term.Enabled(),
		label:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A40000")),
		hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

func (s styles) errorLine(err error) string {
	return s.render(s.label, "error:") + " " + err.Error()
}

func (s styles) hintLine(text string) string {
	return s.render(s.hint, text)
}
