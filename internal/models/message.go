package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a retained message that matched a filter.
type Message struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ChannelID   int64     `json:"channel_id" db:"channel_id"`
	FilterID    int64     `json:"filter_id" db:"filter_id"`
	TGMessageID int64     `json:"tg_message_id" db:"tg_message_id"`
	Text        string    `json:"text" db:"text"`
	Date        time.Time `json:"date" db:"date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Post is a retained message classified under a topic.
type Post struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ChannelID   int64     `json:"channel_id" db:"channel_id"`
	TopicID     int64     `json:"topic_id" db:"topic_id"`
	TGMessageID int64     `json:"tg_message_id" db:"tg_message_id"`
	Text        string    `json:"text" db:"text"`
	Date        time.Time `json:"date" db:"date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Period is a predefined time window for message/post listings.
type Period string

// Supported listing periods.
const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Range resolves the period to a [from, to] window ending at now.
// Returns nil bounds for an unknown period.
func (p Period) Range(now time.Time) (from, to *time.Time) {
	var d time.Duration
	switch p {
	case PeriodDay:
		d = 24 * time.Hour
	case PeriodWeek:
		d = 7 * 24 * time.Hour
	case PeriodMonth:
		d = 30 * 24 * time.Hour
	default:
		return nil, nil
	}
	f := now.Add(-d)
	return &f, &now
}
