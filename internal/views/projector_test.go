package views_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/views"
)

var base = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestDurationBucketBoundaries(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0 seconds"},
		{59, "59 seconds"},
		{60, "1 minutes"},
		{61, "1 minutes"},
		{3599, "59 minutes"},
		{3600, "1 hours"},
		{7200, "2 hours"},
		{86399, "23 hours"},
		{86400, "1 days"},
		{172800, "2 days"},
	}

	for _, tc := range cases {
		end := base.Add(time.Duration(tc.seconds) * time.Second)
		assert.Equal(t, tc.want, views.DurationBucket(base, end), "for %d seconds", tc.seconds)
	}
}

func TestIsPast(t *testing.T) {
	end := base.Add(2 * time.Hour)

	assert.False(t, views.IsPast(end, base))
	assert.False(t, views.IsPast(end, end))
	assert.True(t, views.IsPast(end, end.Add(time.Second)))
	assert.True(t, views.IsPast(end, base.Add(3*time.Hour)))
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "#28a745", views.ColorFor("harvest"))
	assert.Equal(t, "#007bff", views.ColorFor("delivery"))
	assert.Equal(t, "#ffc107", views.ColorFor("maintenance"))
	assert.Equal(t, "#dc3545", views.ColorFor("market"))
	assert.Equal(t, "#6c757d", views.ColorFor("other"))
	assert.Equal(t, "#6c757d", views.ColorFor("unknown_kind"))
}

func TestRelativeTime(t *testing.T) {
	assert.Equal(t, "just now", views.RelativeTime(base, base.Add(30*time.Second)))
	assert.Equal(t, "5 minutes ago", views.RelativeTime(base, base.Add(5*time.Minute)))
	assert.Equal(t, "3 hours ago", views.RelativeTime(base, base.Add(3*time.Hour)))
	assert.Equal(t, "4 days ago", views.RelativeTime(base, base.Add(4*24*time.Hour)))
	assert.Equal(t, "Jun 1, 2025", views.RelativeTime(base, base.Add(90*24*time.Hour)))
}

func TestRelativeTimeDeterministic(t *testing.T) {
	now := base.Add(17 * time.Minute)

	first := views.RelativeTime(base, now)
	second := views.RelativeTime(base, now)

	assert.Equal(t, first, second)
}

func TestDisplaySummary(t *testing.T) {
	registry := entityref.NewRegistry()

	registry.Register("order", func(id uint) (*entityref.Entity, error) {
		if id == 1 {
			return &entityref.Entity{ID: 1, Type: "order", DisplayName: "Order #1 (PENDING)"}, nil
		}
		return nil, nil
	})

	summary, err := views.DisplaySummary(nil, registry)
	require.NoError(t, err)
	assert.Nil(t, summary)

	summary, err = views.DisplaySummary(&entityref.Reference{Type: "order", ID: 1}, registry)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "Order #1 (PENDING)", summary.DisplayName)

	// Dangling reference degrades to nil
	summary, err = views.DisplaySummary(&entityref.Reference{Type: "order", ID: 99}, registry)
	require.NoError(t, err)
	assert.Nil(t, summary)
}
