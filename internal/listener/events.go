package listener

import (
	"time"

	"github.com/google/uuid"
)

// MessageEvent is an incoming channel message published to the pipeline.
type MessageEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	ChannelID   int64     `json:"channel_id"`
	ChannelTGID int64     `json:"channel_tg_id"`
	Username    string    `json:"username"`
	MessageID   int64     `json:"message_id"`
	Text        string    `json:"text"`
	Date        time.Time `json:"date"`
}
