package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

func TestListOptions_Normalize(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		opts      ListOptions
		wantSkip  int
		wantLimit int
	}{
		{"defaults", ListOptions{}, 0, 100},
		{"negative skip clamped", ListOptions{Skip: -5}, 0, 100},
		{"limit over max clamped", ListOptions{Limit: 5000}, 0, 1000},
		{"valid values kept", ListOptions{Skip: 20, Limit: 50}, 20, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Normalize(100, 1000, now)
			assert.Equal(t, tt.wantSkip, tt.opts.Skip)
			assert.Equal(t, tt.wantLimit, tt.opts.Limit)
		})
	}
}

func TestListOptions_Normalize_PeriodResolvesBounds(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	opts := ListOptions{Period: models.PeriodWeek}
	opts.Normalize(100, 1000, now)

	require.NotNil(t, opts.From)
	require.NotNil(t, opts.To)
	assert.Equal(t, now.Add(-7*24*time.Hour), *opts.From)
	assert.Equal(t, now, *opts.To)
}

func TestListOptions_Normalize_ExplicitBoundsWinOverPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	from := now.Add(-48 * time.Hour)

	opts := ListOptions{From: &from, Period: models.PeriodDay}
	opts.Normalize(100, 1000, now)

	require.NotNil(t, opts.From)
	assert.Equal(t, from, *opts.From)
	assert.Nil(t, opts.To, "period must not override explicit bounds")
}

func TestListOptions_WhereDate(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		opts       ListOptions
		wantClause string
		wantArgs   int
	}{
		{"no bounds", ListOptions{}, "WHERE true", 1},
		{"from only", ListOptions{From: &from}, "WHERE true AND date >= $2", 2},
		{"to only", ListOptions{To: &to}, "WHERE true AND date <= $2", 2},
		{"both bounds", ListOptions{From: &from, To: &to}, "WHERE true AND date >= $2 AND date <= $3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.opts.whereDate("WHERE true", []interface{}{int64(7)})
			assert.Equal(t, tt.wantClause, clause)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}
