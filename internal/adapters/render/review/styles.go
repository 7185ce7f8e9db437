package review

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	channel  lipgloss.Style
	detail   lipgloss.Style
	thumb    lipgloss.Style
	action   lipgloss.Style
	errLine  lipgloss.Style
	empty    lipgloss.Style
	helpKey  lipgloss.Style
	helpText lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		channel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		thumb:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		action:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errLine:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:    lipgloss.NewStyle().Faint(true),
		helpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		helpText: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
