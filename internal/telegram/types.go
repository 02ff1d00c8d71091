package telegram

import (
	"time"
)

// Message represents a parsed telegram message
type Message struct {
	ID        int       // message id (unique within channel)
	ChannelID int64     // channel id
	Text      string    // message text content
	Date      time.Time // message creation timestamp
	Views     int       // view count
	Forwards  int       // forward count
}

// ChannelInfo represents a telegram channel
type ChannelInfo struct {
	ID         int64  // channel id
	AccessHash int64  // access hash for api calls
	Username   string // channel username (without @)
	Title      string // channel title
}
