package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// TopicsRepository handles topics and topic_channels table operations
type TopicsRepository struct {
	pool *pgxpool.Pool
}

// NewTopicsRepository creates a new topics repository
func NewTopicsRepository(pool *pgxpool.Pool) *TopicsRepository {
	return &TopicsRepository{pool: pool}
}

// Create inserts a new topic
func (r *TopicsRepository) Create(ctx context.Context, t *models.Topic) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO topics (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, t.Name, t.Description).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// GetByID returns a topic with its channel usernames, nil when not found
func (r *TopicsRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	var t models.Topic
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at FROM topics WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get topic by id: %w", err)
	}

	channels, err := r.channelUsernames(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Channels = channels
	return &t, nil
}

// GetAll returns all topics with their channel usernames
func (r *TopicsRepository) GetAll(ctx context.Context) ([]models.Topic, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at FROM topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("get topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range topics {
		channels, err := r.channelUsernames(ctx, topics[i].ID)
		if err != nil {
			return nil, err
		}
		topics[i].Channels = channels
	}
	return topics, nil
}

// GetByChannelID returns topics linked to the given channel
func (r *TopicsRepository) GetByChannelID(ctx context.Context, channelID int64) ([]models.Topic, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.name, t.description, t.created_at
		FROM topics t
		JOIN topic_channels tc ON tc.topic_id = t.id
		WHERE tc.channel_id = $1
		ORDER BY t.id
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("get topics by channel: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// Update replaces a topic's name and description. Returns false when the
// topic does not exist.
func (r *TopicsRepository) Update(ctx context.Context, t *models.Topic) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE topics SET name = $2, description = $3 WHERE id = $1
	`, t.ID, t.Name, t.Description)
	if err != nil {
		return false, fmt.Errorf("update topic: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a topic and its channel links
func (r *TopicsRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete topic: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AddChannel links a channel to a topic. Duplicate links are ignored.
func (r *TopicsRepository) AddChannel(ctx context.Context, topicID, channelID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO topic_channels (topic_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, topicID, channelID)
	if err != nil {
		return fmt.Errorf("add topic channel: %w", err)
	}
	return nil
}

// RemoveChannel unlinks a channel from a topic
func (r *TopicsRepository) RemoveChannel(ctx context.Context, topicID, channelID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM topic_channels WHERE topic_id = $1 AND channel_id = $2
	`, topicID, channelID)
	if err != nil {
		return false, fmt.Errorf("remove topic channel: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TopicsRepository) channelUsernames(ctx context.Context, topicID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.username
		FROM channels c
		JOIN topic_channels tc ON tc.channel_id = c.id
		WHERE tc.topic_id = $1
		ORDER BY c.username
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("get topic channels: %w", err)
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		usernames = append(usernames, u)
	}
	return usernames, rows.Err()
}
