package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// ChannelsRepository handles channels table operations
type ChannelsRepository struct {
	pool *pgxpool.Pool
}

// NewChannelsRepository creates a new channels repository
func NewChannelsRepository(pool *pgxpool.Pool) *ChannelsRepository {
	return &ChannelsRepository{pool: pool}
}

const channelColumns = `id, username, title, tg_id, access_hash, created_at`

func scanChannel(row pgx.Row) (*models.Channel, error) {
	var c models.Channel
	err := row.Scan(&c.ID, &c.Username, &c.Title, &c.TGID, &c.AccessHash, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateByUsername returns the channel for a username, creating it
// if needed. The username is normalized before lookup.
func (r *ChannelsRepository) GetOrCreateByUsername(ctx context.Context, username string) (*models.Channel, error) {
	username = models.NormalizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("empty channel username")
	}

	c, err := scanChannel(r.pool.QueryRow(ctx, `
		INSERT INTO channels (username)
		VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING `+channelColumns,
		username))
	if err != nil {
		return nil, fmt.Errorf("get or create channel: %w", err)
	}
	return c, nil
}

// GetByUsername returns a channel by normalized username, nil when not found
func (r *ChannelsRepository) GetByUsername(ctx context.Context, username string) (*models.Channel, error) {
	username = models.NormalizeUsername(username)
	c, err := scanChannel(r.pool.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE username = $1`, username))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel by username: %w", err)
	}
	return c, nil
}

// GetByID returns a channel by id, nil when not found
func (r *ChannelsRepository) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	c, err := scanChannel(r.pool.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel by id: %w", err)
	}
	return c, nil
}

// GetByTGID returns a channel by its telegram id, nil when not found
func (r *ChannelsRepository) GetByTGID(ctx context.Context, tgID int64) (*models.Channel, error) {
	c, err := scanChannel(r.pool.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE tg_id = $1`, tgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel by tg id: %w", err)
	}
	return c, nil
}

// GetAll returns all channels ordered by username
func (r *ChannelsRepository) GetAll(ctx context.Context) ([]models.Channel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+channelColumns+` FROM channels ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("get channels: %w", err)
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, *c)
	}
	return channels, rows.Err()
}

// UpdateTelegramInfo stores the resolved telegram id, access hash and title.
func (r *ChannelsRepository) UpdateTelegramInfo(ctx context.Context, id int64, tgID, accessHash int64, title string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE channels SET tg_id = $2, access_hash = $3, title = $4
		WHERE id = $1
	`, id, tgID, accessHash, title)
	if err != nil {
		return fmt.Errorf("update channel telegram info: %w", err)
	}
	return nil
}

// Delete removes a channel, its topic links and retained content.
func (r *ChannelsRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete channel: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
