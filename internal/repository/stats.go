package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MonitorStats contains aggregated counters for the stats endpoint.
type MonitorStats struct {
	TotalMessages int `json:"total_messages"`
	TodayMessages int `json:"today_messages"`
	TotalPosts    int `json:"total_posts"`
	TodayPosts    int `json:"today_posts"`
	Filters       int `json:"filters"`
	Topics        int `json:"topics"`
	Channels      int `json:"channels"`
}

// StatsRepository provides access to aggregated statistics.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// GetStats retrieves aggregated monitor statistics.
func (r *StatsRepository) GetStats(ctx context.Context) (*MonitorStats, error) {
	stats := &MonitorStats{}

	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) as total,
			COUNT(CASE WHEN created_at >= CURRENT_DATE THEN 1 END) as today
		FROM messages
	`).Scan(&stats.TotalMessages, &stats.TodayMessages)
	if err != nil {
		return nil, fmt.Errorf("get message stats: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) as total,
			COUNT(CASE WHEN created_at >= CURRENT_DATE THEN 1 END) as today
		FROM posts
	`).Scan(&stats.TotalPosts, &stats.TodayPosts)
	if err != nil {
		return nil, fmt.Errorf("get post stats: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM filters),
			(SELECT COUNT(*) FROM topics),
			(SELECT COUNT(*) FROM channels)
	`).Scan(&stats.Filters, &stats.Topics, &stats.Channels)
	if err != nil {
		return nil, fmt.Errorf("get entity stats: %w", err)
	}

	return stats, nil
}
