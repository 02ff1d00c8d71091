package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robertpustota/telegram-ai-monitor/internal/logger"

	"github.com/celestix/gotgproto"
	"github.com/gotd/td/tg"
)

// Client wraps the gotgproto client and provides high-level channel
// operations. All calls go through the rate limiter and respect
// FLOOD_WAIT backoffs.
type Client struct {
	manager     *Manager
	rateLimiter *RateLimiter
	log         *logger.Logger
}

// NewClient creates a new telegram client wrapper using the Manager.
func NewClient(manager *Manager) *Client {
	return &Client{
		manager:     manager,
		rateLimiter: DefaultRateLimiter(),
		log:         logger.Get(),
	}
}

// Close stops the client via the manager.
func (c *Client) Close() {
	if c.manager != nil {
		c.manager.Stop()
	}
}

// GetStatus returns the current status of the telegram client.
func (c *Client) GetStatus() Status {
	return c.manager.GetStatus()
}

// getProto returns the current protocol client if available.
func (c *Client) getProto() (*gotgproto.Client, error) {
	proto := c.manager.GetClient()
	if proto == nil {
		return nil, fmt.Errorf("telegram client not authorized")
	}
	return proto, nil
}

// API returns the raw tg.Client for direct API calls.
func (c *Client) API() (*tg.Client, error) {
	proto, err := c.getProto()
	if err != nil {
		return nil, err
	}
	return proto.API(), nil
}

// ResolveChannel resolves a channel username to its id and access hash.
// The username may carry an @ prefix.
func (c *Client) ResolveChannel(ctx context.Context, username string) (*ChannelInfo, error) {
	username = strings.TrimPrefix(username, "@")

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.log.Info().Str("username", username).Msg("telegram: resolving channel username")
	api, err := c.API()
	if err != nil {
		return nil, err
	}
	resolved, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: username,
	})
	if err != nil {
		if wait := c.checkFloodWait(err); wait > 0 {
			c.log.Warn().Int("wait_seconds", wait).Msg("telegram: FLOOD_WAIT detected, updating rate limiter")
			c.rateLimiter.SetFloodWait(wait)
		}
		return nil, fmt.Errorf("resolve username %s: %w", username, err)
	}

	if len(resolved.Chats) == 0 {
		return nil, fmt.Errorf("channel not found: %s", username)
	}

	ch, ok := resolved.Chats[0].(*tg.Channel)
	if !ok {
		return nil, fmt.Errorf("not a channel: %s", username)
	}

	return &ChannelInfo{
		ID:         ch.ID,
		AccessHash: ch.AccessHash,
		Username:   username,
		Title:      ch.Title,
	}, nil
}

// ChannelExists checks if channel username exists and is accessible.
func (c *Client) ChannelExists(ctx context.Context, username string) (bool, error) {
	_, err := c.ResolveChannel(ctx, username)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetMessages fetches messages from a channel.
// offsetID: start from this message id (0 = newest messages)
// limit: max number of messages to fetch (max 100)
func (c *Client) GetMessages(ctx context.Context, channel *ChannelInfo, offsetID int, limit int) ([]Message, error) {
	if limit > 100 {
		limit = 100 // telegram api limit
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.log.Debug().Int64("channel_id", channel.ID).Int("offset_id", offsetID).Int("limit", limit).Msg("telegram: calling MessagesGetHistory")
	api, err := c.API()
	if err != nil {
		return nil, err
	}
	history, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer: &tg.InputPeerChannel{
			ChannelID:  channel.ID,
			AccessHash: channel.AccessHash,
		},
		OffsetID: offsetID,
		Limit:    limit,
	})
	if err != nil {
		if wait := c.checkFloodWait(err); wait > 0 {
			c.log.Warn().Int("wait_seconds", wait).Msg("telegram: FLOOD_WAIT detected in GetMessages, updating rate limiter")
			c.rateLimiter.SetFloodWait(wait)
		}
		return nil, fmt.Errorf("get history: %w", err)
	}

	return c.extractMessages(history, channel)
}

// extractMessages converts a telegram history response to our Message type.
func (c *Client) extractMessages(messagesClass tg.MessagesMessagesClass, channel *ChannelInfo) ([]Message, error) {
	var messages []Message

	switch h := messagesClass.(type) {
	case *tg.MessagesChannelMessages:
		for _, msg := range h.Messages {
			if m := c.parseMessage(msg, channel); m != nil {
				messages = append(messages, *m)
			}
		}
	case *tg.MessagesMessages:
		for _, msg := range h.Messages {
			if m := c.parseMessage(msg, channel); m != nil {
				messages = append(messages, *m)
			}
		}
	}

	return messages, nil
}

func (c *Client) parseMessage(msg tg.MessageClass, channel *ChannelInfo) *Message {
	m, ok := msg.(*tg.Message)
	if !ok {
		return nil
	}

	return &Message{
		ID:        m.ID,
		ChannelID: channel.ID,
		Text:      m.Message,
		Date:      time.Unix(int64(m.Date), 0),
		Views:     m.Views,
		Forwards:  m.Forwards,
	}
}

// checkFloodWait checks if error is a FLOOD_WAIT error and returns wait seconds.
func (c *Client) checkFloodWait(err error) int {
	if err == nil {
		return 0
	}

	// gotgproto/gotd errors are usually wrapped, so match on the error
	// string rather than the gotd FloodWait type
	str := err.Error()
	if strings.Contains(str, "FLOOD_WAIT_") {
		var seconds int
		parts := strings.Split(str, "FLOOD_WAIT_")
		if len(parts) > 1 {
			numStr := strings.TrimSpace(parts[1])
			_, _ = fmt.Sscanf(numStr, "%d", &seconds)
			return seconds
		}
	}
	return 0
}
