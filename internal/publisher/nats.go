// Package publisher bridges pipeline events onto NATS JetStream subjects.
package publisher

import (
	"context"
	"fmt"

	"github.com/robertpustota/telegram-ai-monitor/internal/classifier"
	"github.com/robertpustota/telegram-ai-monitor/internal/listener"
	"github.com/robertpustota/telegram-ai-monitor/internal/nats"
)

// JetStreamClient is the publish surface we need, allows mocking
type JetStreamClient interface {
	Publish(ctx context.Context, subject string, data any) error
}

// NATSPublisher implements listener.EventPublisher on JetStream.
type NATSPublisher struct {
	js JetStreamClient
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(js JetStreamClient) *NATSPublisher {
	return &NATSPublisher{js: js}
}

// PublishIncoming publishes an incoming message event for classification.
func (p *NATSPublisher) PublishIncoming(ctx context.Context, event listener.MessageEvent) error {
	if err := p.js.Publish(ctx, nats.SubjectIncoming, event); err != nil {
		return fmt.Errorf("publish incoming: %w", err)
	}
	return nil
}

// PublishAccepted publishes a filter match event.
func (p *NATSPublisher) PublishAccepted(ctx context.Context, event classifier.AcceptedEvent) error {
	if err := p.js.Publish(ctx, nats.SubjectAccepted, event); err != nil {
		return fmt.Errorf("publish accepted: %w", err)
	}
	return nil
}

// PublishPost publishes a topic classification event.
func (p *NATSPublisher) PublishPost(ctx context.Context, event classifier.PostEvent) error {
	if err := p.js.Publish(ctx, nats.SubjectPostFound, event); err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	return nil
}
