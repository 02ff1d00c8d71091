package classifier

import (
	"time"

	"github.com/google/uuid"
)

// AcceptedEvent is emitted when a message passes a filter and is retained.
type AcceptedEvent struct {
	MessageID   uuid.UUID `json:"message_id"`
	FilterID    int64     `json:"filter_id"`
	FilterName  string    `json:"filter_name"`
	ChannelID   int64     `json:"channel_id"`
	Username    string    `json:"username"`
	TGMessageID int64     `json:"tg_message_id"`
	Text        string    `json:"text"`
	Date        time.Time `json:"date"`
}

// PostEvent is emitted when a message is classified under a topic.
type PostEvent struct {
	PostID      uuid.UUID `json:"post_id"`
	TopicID     int64     `json:"topic_id"`
	TopicName   string    `json:"topic_name"`
	ChannelID   int64     `json:"channel_id"`
	Username    string    `json:"username"`
	TGMessageID int64     `json:"tg_message_id"`
	Text        string    `json:"text"`
	Date        time.Time `json:"date"`
}
