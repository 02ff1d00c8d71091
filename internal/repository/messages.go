package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// MessagesRepository handles messages table operations
type MessagesRepository struct {
	pool *pgxpool.Pool
}

// NewMessagesRepository creates a new messages repository
func NewMessagesRepository(pool *pgxpool.Pool) *MessagesRepository {
	return &MessagesRepository{pool: pool}
}

// Create inserts a retained message. A duplicate (same channel, filter and
// telegram message id) is not an error; created reports whether a new row
// was inserted.
func (r *MessagesRepository) Create(ctx context.Context, m *models.Message) (created bool, err error) {
	err = r.pool.QueryRow(ctx, `
		INSERT INTO messages (channel_id, filter_id, tg_message_id, text, date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (channel_id, filter_id, tg_message_id) DO NOTHING
		RETURNING id, created_at
	`, m.ChannelID, m.FilterID, m.TGMessageID, m.Text, m.Date,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("create message: %w", err)
	}
	return true, nil
}

// List returns retained messages matching the options, newest first.
// filterID and channelID of 0 mean no restriction.
func (r *MessagesRepository) List(ctx context.Context, filterID, channelID int64, opts ListOptions) ([]models.Message, error) {
	clause := "WHERE true"
	args := []interface{}{}
	if filterID != 0 {
		args = append(args, filterID)
		clause += fmt.Sprintf(" AND filter_id = $%d", len(args))
	}
	if channelID != 0 {
		args = append(args, channelID)
		clause += fmt.Sprintf(" AND channel_id = $%d", len(args))
	}
	clause, args = opts.whereDate(clause, args)

	args = append(args, opts.Limit, opts.Skip)
	query := fmt.Sprintf(`
		SELECT id, channel_id, filter_id, tg_message_id, text, date, created_at
		FROM messages
		%s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.FilterID, &m.TGMessageID, &m.Text, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// GetByID returns a retained message, nil when not found
func (r *MessagesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id, channel_id, filter_id, tg_message_id, text, date, created_at
		FROM messages WHERE id = $1
	`, id).Scan(&m.ID, &m.ChannelID, &m.FilterID, &m.TGMessageID, &m.Text, &m.Date, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get message by id: %w", err)
	}
	return &m, nil
}

// Delete removes a retained message
func (r *MessagesRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
