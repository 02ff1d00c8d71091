package classifier

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/robertpustota/telegram-ai-monitor/internal/listener"
	"github.com/robertpustota/telegram-ai-monitor/internal/nats"
)

// Subscriber is the consuming surface of the nats client
type Subscriber interface {
	Subscribe(ctx context.Context, stream, consumer, subject string, handler func([]byte) error) error
}

// Consumer feeds incoming message events from JetStream into the engine.
type Consumer struct {
	client Subscriber
	engine *Engine
	log    *zerolog.Logger
}

// NewConsumer creates a new JetStream consumer
func NewConsumer(client Subscriber, engine *Engine, log *zerolog.Logger) *Consumer {
	return &Consumer{
		client: client,
		engine: engine,
		log:    log,
	}
}

// Start subscribes to incoming messages with a durable consumer.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info().Msg("starting classifier consumer")
	return c.client.Subscribe(ctx, nats.StreamMessages, "classifier", nats.SubjectIncoming, c.handleMessage)
}

// handleMessage processes a single event. Malformed payloads are acked and
// dropped; engine failures are returned so the event is redelivered.
func (c *Consumer) handleMessage(data []byte) error {
	var event listener.MessageEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.log.Error().Err(err).Msg("invalid event payload, skipping")
		return nil
	}

	c.log.Debug().
		Str("channel", event.Username).
		Int64("message_id", event.MessageID).
		Msg("received incoming event")

	if err := c.engine.Process(context.Background(), event); err != nil {
		c.log.Error().
			Str("channel", event.Username).
			Int64("message_id", event.MessageID).
			Err(err).
			Msg("failed to process event")
		return err
	}
	return nil
}
