package review

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

type viewState struct {
	busy       bool
	busyLabel  string
	spinner    string
	current    *domain.Channel
	queueLen   int
	exhausted  bool
	reviewed   int
	lastAction string
	err        error
}

func renderView(state viewState, s styles) string {
	lines := []string{
		s.title.Render("Channel Review"),
		s.header.Render(fmt.Sprintf("queued: %d  reviewed: %d", state.queueLen, state.reviewed)),
	}

	switch {
	case state.busy:
		lines = append(lines, fmt.Sprintf("%s %s", state.spinner, state.busyLabel))
	case state.current != nil:
		lines = append(lines, renderChannel(*state.current, s))
	case state.exhausted:
		lines = append(lines, s.empty.Render("No channels left to review. Press r to refresh."))
	default:
		lines = append(lines, s.empty.Render("Queue is empty."))
	}

	if state.lastAction != "" {
		lines = append(lines, s.action.Render(state.lastAction))
	}
	if state.err != nil {
		lines = append(lines, s.errLine.Render("error: "+state.err.Error()))
	}

	lines = append(lines, renderHelp(s))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderChannel(channel domain.Channel, s styles) string {
	parts := []string{
		s.channel.Render(channel.ChannelTitle),
		s.detail.Render(fmt.Sprintf("subscribers: %s  candidates: %d", formatSubscribers(channel.Subscribers), len(channel.Items))),
	}

	for i, thumb := range channel.Items {
		parts = append(parts, s.thumb.Render(fmt.Sprintf("  %d. %s (%.2f)", i+1, thumb.Title, thumb.Engagement)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHelp(s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.helpKey.Render("0-5"),
		s.helpText.Render(" score  "),
		s.helpKey.Render("s"),
		s.helpText.Render(" skip  "),
		s.helpKey.Render("r"),
		s.helpText.Render(" refresh  "),
		s.helpKey.Render("q"),
		s.helpText.Render(" quit"),
	)
}

func formatSubscribers(count int64) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	default:
		return fmt.Sprintf("%d", count)
	}
}
