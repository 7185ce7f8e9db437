package kpis

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

type RenderOptions struct {
	WindowDays   int
	ActiveBucket domain.ActiveBucket
}

func renderView(kpis domain.UsersKpis, opts RenderOptions, s styles) string {
	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = 30
	}

	bucket := opts.ActiveBucket
	if !bucket.Valid() {
		bucket = domain.BucketMonthly
	}

	cards := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.card.Render(renderCard("Total users", kpis.TotalUsers, nil, s)),
		s.card.Render(renderCard("New users", kpis.NewUsers, &kpis.NewUsersChangePct, s)),
		s.card.Render(renderCard("Subscribed", kpis.SubscribedUsers, &kpis.SubscribedUsersChangePct, s)),
		s.card.Render(renderCard(activeLabel(bucket), kpis.ActiveUsers, &kpis.ActiveUsersChangePct, s)),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.title.Render("User KPIs"),
		s.header.Render(fmt.Sprintf("window: last %d days", windowDays)),
		cards,
		s.footnote.Render("change vs the previous window"),
	)
}

func renderCard(label string, value int, changePct *float64, s styles) string {
	lines := []string{
		s.metric.Render(label),
		s.value.Render(fmt.Sprintf("%d", value)),
	}
	if changePct != nil {
		lines = append(lines, renderChange(*changePct, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderChange(pct float64, s styles) string {
	switch {
	case pct > 0:
		return s.up.Render(fmt.Sprintf("▲ %+.1f%%", pct*100))
	case pct < 0:
		return s.down.Render(fmt.Sprintf("▼ %+.1f%%", pct*100))
	default:
		return s.flat.Render("– 0.0%")
	}
}

func activeLabel(bucket domain.ActiveBucket) string {
	switch bucket {
	case domain.BucketDaily:
		return "Active (daily)"
	case domain.BucketWeekly:
		return "Active (weekly)"
	default:
		return "Active (monthly)"
	}
}
