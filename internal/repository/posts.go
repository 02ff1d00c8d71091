package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// PostsRepository handles posts table operations
type PostsRepository struct {
	pool *pgxpool.Pool
}

// NewPostsRepository creates a new posts repository
func NewPostsRepository(pool *pgxpool.Pool) *PostsRepository {
	return &PostsRepository{pool: pool}
}

// Create inserts a classified post. Duplicates (same channel, topic and
// telegram message id) are skipped; created reports whether a new row was
// inserted.
func (r *PostsRepository) Create(ctx context.Context, p *models.Post) (created bool, err error) {
	err = r.pool.QueryRow(ctx, `
		INSERT INTO posts (channel_id, topic_id, tg_message_id, text, date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (channel_id, topic_id, tg_message_id) DO NOTHING
		RETURNING id, created_at
	`, p.ChannelID, p.TopicID, p.TGMessageID, p.Text, p.Date,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("create post: %w", err)
	}
	return true, nil
}

// List returns classified posts matching the options, newest first.
// topicID and channelID of 0 mean no restriction.
func (r *PostsRepository) List(ctx context.Context, topicID, channelID int64, opts ListOptions) ([]models.Post, error) {
	clause := "WHERE true"
	args := []interface{}{}
	if topicID != 0 {
		args = append(args, topicID)
		clause += fmt.Sprintf(" AND topic_id = $%d", len(args))
	}
	if channelID != 0 {
		args = append(args, channelID)
		clause += fmt.Sprintf(" AND channel_id = $%d", len(args))
	}
	clause, args = opts.whereDate(clause, args)

	args = append(args, opts.Limit, opts.Skip)
	query := fmt.Sprintf(`
		SELECT id, channel_id, topic_id, tg_message_id, text, date, created_at
		FROM posts
		%s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.ChannelID, &p.TopicID, &p.TGMessageID, &p.Text, &p.Date, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetByID returns a classified post, nil when not found
func (r *PostsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	err := r.pool.QueryRow(ctx, `
		SELECT id, channel_id, topic_id, tg_message_id, text, date, created_at
		FROM posts WHERE id = $1
	`, id).Scan(&p.ID, &p.ChannelID, &p.TopicID, &p.TGMessageID, &p.Text, &p.Date, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get post by id: %w", err)
	}
	return &p, nil
}

// Delete removes a classified post
func (r *PostsRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
