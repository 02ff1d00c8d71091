package web

import (
	"github.com/robertpustota/telegram-ai-monitor/internal/classifier"
)

// WebSocket event types
const (
	EventMessageAccepted = "message.accepted"
	EventPostClassified  = "post.classified"
	EventAuthStatus      = "auth.status"
)

// WSEvent represents a structured WebSocket message
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// MessageAcceptedEvent wraps a filter match for WS clients.
func MessageAcceptedEvent(e classifier.AcceptedEvent) WSEvent {
	return WSEvent{Type: EventMessageAccepted, Payload: e}
}

// PostClassifiedEvent wraps a topic classification for WS clients.
func PostClassifiedEvent(e classifier.PostEvent) WSEvent {
	return WSEvent{Type: EventPostClassified, Payload: e}
}

// AuthStatusPayload is the payload for EventAuthStatus.
type AuthStatusPayload struct {
	Status string `json:"status"`
}

// AuthStatusEvent reports a change of the Telegram client status.
func AuthStatusEvent(status string) WSEvent {
	return WSEvent{Type: EventAuthStatus, Payload: AuthStatusPayload{Status: status}}
}
