// Package listener receives live channel messages from Telegram and feeds
// them into the processing pipeline.
package listener

import (
	"context"
	"fmt"
	"time"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/dispatcher/handlers"
	"github.com/celestix/gotgproto/dispatcher/handlers/filters"
	"github.com/celestix/gotgproto/ext"
	"github.com/google/uuid"

	"github.com/robertpustota/telegram-ai-monitor/internal/logger"
	"github.com/robertpustota/telegram-ai-monitor/internal/models"
	"github.com/robertpustota/telegram-ai-monitor/internal/telegram"
)

// ChannelsRepo is the channel lookup surface the listener needs.
type ChannelsRepo interface {
	GetByTGID(ctx context.Context, tgID int64) (*models.Channel, error)
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	UpdateTelegramInfo(ctx context.Context, id int64, tgID, accessHash int64, title string) error
}

// EventPublisher publishes incoming message events.
type EventPublisher interface {
	PublishIncoming(ctx context.Context, event MessageEvent) error
}

// TelegramClient defines the telegram operations used for backfill.
type TelegramClient interface {
	ResolveChannel(ctx context.Context, username string) (*telegram.ChannelInfo, error)
	GetMessages(ctx context.Context, channel *telegram.ChannelInfo, offsetID int, limit int) ([]telegram.Message, error)
}

// Service turns Telegram updates into pipeline events. Live updates come
// through the gotgproto dispatcher; Backfill pulls channel history on
// demand.
type Service struct {
	tgClient  TelegramClient
	channels  ChannelsRepo
	publisher EventPublisher
	log       *logger.Logger
}

// NewService creates a new listener service
func NewService(tgClient TelegramClient, channels ChannelsRepo, publisher EventPublisher) *Service {
	return &Service{
		tgClient:  tgClient,
		channels:  channels,
		publisher: publisher,
		log:       logger.Get(),
	}
}

// Attach registers the live message handler on the client dispatcher.
func (s *Service) Attach(client *gotgproto.Client) {
	client.Dispatcher.AddHandler(handlers.NewMessage(filters.Message.All, s.handleUpdate))
}

func (s *Service) handleUpdate(ctx *ext.Context, update *ext.Update) error {
	msg := update.EffectiveMessage
	if msg == nil || msg.Message == nil || msg.Text == "" {
		return nil
	}

	chat := update.EffectiveChat()
	if chat == nil {
		return nil
	}
	tgID := chat.GetID()

	channel, err := s.channels.GetByTGID(ctx, tgID)
	if err != nil {
		s.log.Error().Err(err).Int64("tg_id", tgID).Msg("listener: channel lookup failed")
		return nil
	}
	if channel == nil {
		// not a monitored channel
		return nil
	}

	event := MessageEvent{
		EventID:     uuid.New(),
		ChannelID:   channel.ID,
		ChannelTGID: tgID,
		Username:    channel.Username,
		MessageID:   int64(msg.ID),
		Text:        msg.Text,
		Date:        time.Unix(int64(msg.Date), 0),
	}

	if err := s.publisher.PublishIncoming(ctx, event); err != nil {
		s.log.Error().Err(err).Str("channel", channel.Username).Msg("listener: publish failed")
		return nil
	}

	s.log.Debug().
		Str("channel", channel.Username).
		Int64("message_id", event.MessageID).
		Msg("listener: message published")
	return nil
}

// BackfillResult contains backfill statistics for one channel.
type BackfillResult struct {
	Fetched   int
	Published int
	Skipped   int
}

// Backfill fetches up to limit recent messages from a channel and publishes
// them as incoming events. The channel's telegram id and access hash are
// resolved and stored on first use.
func (s *Service) Backfill(ctx context.Context, channelID int64, limit int) (*BackfillResult, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	if channel == nil {
		return nil, fmt.Errorf("channel %d not found", channelID)
	}

	info, err := s.resolveInfo(ctx, channel)
	if err != nil {
		return nil, err
	}

	result := &BackfillResult{}
	offsetID := 0

	for result.Fetched < limit {
		batch := limit - result.Fetched
		if batch > 100 {
			batch = 100
		}

		messages, err := s.tgClient.GetMessages(ctx, info, offsetID, batch)
		if err != nil {
			return result, fmt.Errorf("get messages: %w", err)
		}
		if len(messages) == 0 {
			break
		}

		for _, m := range messages {
			result.Fetched++
			if m.ID < offsetID || offsetID == 0 {
				offsetID = m.ID
			}
			if m.Text == "" {
				result.Skipped++
				continue
			}

			event := MessageEvent{
				EventID:     uuid.New(),
				ChannelID:   channel.ID,
				ChannelTGID: info.ID,
				Username:    channel.Username,
				MessageID:   int64(m.ID),
				Text:        m.Text,
				Date:        m.Date,
			}
			if err := s.publisher.PublishIncoming(ctx, event); err != nil {
				return result, fmt.Errorf("publish event: %w", err)
			}
			result.Published++
		}
	}

	s.log.Info().
		Str("channel", channel.Username).
		Int("fetched", result.Fetched).
		Int("published", result.Published).
		Msg("listener: backfill done")
	return result, nil
}

func (s *Service) resolveInfo(ctx context.Context, channel *models.Channel) (*telegram.ChannelInfo, error) {
	if channel.TGID != nil && channel.AccessHash != nil {
		return &telegram.ChannelInfo{
			ID:         *channel.TGID,
			AccessHash: *channel.AccessHash,
			Username:   channel.Username,
			Title:      channel.Title,
		}, nil
	}

	info, err := s.tgClient.ResolveChannel(ctx, channel.Username)
	if err != nil {
		return nil, fmt.Errorf("resolve channel: %w", err)
	}

	if err := s.channels.UpdateTelegramInfo(ctx, channel.ID, info.ID, info.AccessHash, info.Title); err != nil {
		s.log.Warn().Err(err).Msg("listener: failed to store telegram info")
	}
	return info, nil
}
