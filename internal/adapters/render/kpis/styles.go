package kpis

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	card     lipgloss.Style
	metric   lipgloss.Style
	value    lipgloss.Style
	up       lipgloss.Style
	down     lipgloss.Style
	flat     lipgloss.Style
	footnote lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginRight(1),
		metric:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		value:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		up:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		down:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		flat:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		footnote: lipgloss.NewStyle().Faint(true),
	}
}
