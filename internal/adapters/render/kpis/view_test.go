package kpis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

func TestRenderShowsAllKpiCards(t *testing.T) {
	output, err := Render(domain.UsersKpis{
		TotalUsers:               12450,
		NewUsers:                 320,
		NewUsersChangePct:        0.12,
		SubscribedUsers:          980,
		SubscribedUsersChangePct: -0.034,
		ActiveUsers:              4100,
		ActiveUsersChangePct:     0,
	}, RenderOptions{WindowDays: 30, ActiveBucket: domain.BucketMonthly})

	require.NoError(t, err)
	assert.Contains(t, output, "User KPIs")
	assert.Contains(t, output, "window: last 30 days")
	assert.Contains(t, output, "12450")
	assert.Contains(t, output, "+12.0%")
	assert.Contains(t, output, "-3.4%")
	assert.Contains(t, output, "0.0%")
	assert.Contains(t, output, "Active (monthly)")
}

func TestRenderLabelsActiveBucket(t *testing.T) {
	output, err := Render(domain.UsersKpis{ActiveUsers: 900}, RenderOptions{
		WindowDays:   7,
		ActiveBucket: domain.BucketDaily,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "window: last 7 days")
	assert.Contains(t, output, "Active (daily)")
}

func TestRenderDefaultsWindowAndBucket(t *testing.T) {
	output, err := Render(domain.UsersKpis{}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "window: last 30 days")
	assert.Contains(t, output, "Active (monthly)")
}
