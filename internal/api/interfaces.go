package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/robertpustota/telegram-ai-monitor/internal/listener"
	"github.com/robertpustota/telegram-ai-monitor/internal/models"
	"github.com/robertpustota/telegram-ai-monitor/internal/repository"
	"github.com/robertpustota/telegram-ai-monitor/internal/telegram"
)

// TokensRepository defines the interface for API token access.
type TokensRepository interface {
	Create(ctx context.Context, name string) (*models.APIToken, error)
	GetActiveByToken(ctx context.Context, token string) (*models.APIToken, error)
	Revoke(ctx context.Context, id int64) (bool, error)
}

// FiltersRepository defines the interface for filter data access.
type FiltersRepository interface {
	Create(ctx context.Context, f *models.Filter) error
	GetByID(ctx context.Context, id int64) (*models.Filter, error)
	GetAll(ctx context.Context) ([]models.Filter, error)
	Update(ctx context.Context, f *models.Filter) (bool, error)
	UpdateSources(ctx context.Context, id int64, include, exclude []string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// TopicsRepository defines the interface for topic data access.
type TopicsRepository interface {
	Create(ctx context.Context, t *models.Topic) error
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
	GetAll(ctx context.Context) ([]models.Topic, error)
	Update(ctx context.Context, t *models.Topic) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	AddChannel(ctx context.Context, topicID, channelID int64) error
	RemoveChannel(ctx context.Context, topicID, channelID int64) (bool, error)
}

// ChannelsRepository defines the interface for channel data access.
type ChannelsRepository interface {
	GetOrCreateByUsername(ctx context.Context, username string) (*models.Channel, error)
	GetByUsername(ctx context.Context, username string) (*models.Channel, error)
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	GetAll(ctx context.Context) ([]models.Channel, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// MessagesRepository defines the interface for retained message access.
type MessagesRepository interface {
	List(ctx context.Context, filterID, channelID int64, opts repository.ListOptions) ([]models.Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// PostsRepository defines the interface for classified post access.
type PostsRepository interface {
	List(ctx context.Context, topicID, channelID int64, opts repository.ListOptions) ([]models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// StatsRepository defines the interface for stats data access.
type StatsRepository interface {
	GetStats(ctx context.Context) (*repository.MonitorStats, error)
}

// TelegramManager defines the interface for Telegram auth operations.
type TelegramManager interface {
	GetStatus() telegram.Status
	BeginLogin(ctx context.Context, phone string) error
	CompleteLogin(ctx context.Context, phone, code, password string) error
	CancelLogin(phone string)
	HasPendingLogin(phone string) bool
}

// ListenerService defines the interface for channel backfill operations.
type ListenerService interface {
	Backfill(ctx context.Context, channelID int64, limit int) (*listener.BackfillResult, error)
}
