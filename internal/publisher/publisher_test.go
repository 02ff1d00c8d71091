package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/robertpustota/telegram-ai-monitor/internal/listener"
)

// MockJetStream mocks the jetstream publish surface
type MockJetStream struct {
	PublishedSubject string
	PublishedData    any
	PublishError     error
}

func (m *MockJetStream) Publish(ctx context.Context, subject string, data any) error {
	m.PublishedSubject = subject
	m.PublishedData = data
	return m.PublishError
}

func TestNATSPublisher_PublishIncoming(t *testing.T) {
	mock := &MockJetStream{}
	pub := NewNATSPublisher(mock)

	event := listener.MessageEvent{
		EventID:   uuid.New(),
		ChannelID: 7,
		Username:  "technews",
		MessageID: 123,
		Text:      "breaking",
		Date:      time.Now(),
	}

	err := pub.PublishIncoming(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.PublishedSubject != "messages.incoming" {
		t.Errorf("subject = %s, want messages.incoming", mock.PublishedSubject)
	}

	got, ok := mock.PublishedData.(listener.MessageEvent)
	if !ok {
		t.Fatalf("payload type = %T, want listener.MessageEvent", mock.PublishedData)
	}
	if got.MessageID != 123 {
		t.Errorf("message id = %d, want 123", got.MessageID)
	}
}

func TestNATSPublisher_PublishIncoming_Error(t *testing.T) {
	mock := &MockJetStream{PublishError: errors.New("nats down")}
	pub := NewNATSPublisher(mock)

	err := pub.PublishIncoming(context.Background(), listener.MessageEvent{})
	if err == nil {
		t.Fatal("expected error")
	}
}
