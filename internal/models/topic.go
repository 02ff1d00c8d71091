package models

import (
	"strings"
	"time"
)

// Topic is a named grouping of channels used to classify retained posts.
type Topic struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Channels    []string  `json:"channel_usernames" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Channel is a monitored Telegram channel.
type Channel struct {
	ID         int64     `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Title      string    `json:"title,omitempty" db:"title"`
	TGID       *int64    `json:"tg_id,omitempty" db:"tg_id"`
	AccessHash *int64    `json:"-" db:"access_hash"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NormalizeUsername lowercases a channel username and strips the @ prefix
// and any t.me link prefix.
func NormalizeUsername(username string) string {
	username = strings.TrimSpace(strings.ToLower(username))
	username = strings.TrimPrefix(username, "https://t.me/")
	username = strings.TrimPrefix(username, "t.me/")
	return strings.TrimPrefix(username, "@")
}
