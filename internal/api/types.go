package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// ============================================================================
// Common Types
// ============================================================================

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok" description:"Health status"`
	Version string `json:"version" example:"dev" description:"Application version"`
}

// StatusResponse is a generic operation acknowledgement.
type StatusResponse struct {
	Status string `json:"status" description:"Operation outcome"`
}

// ============================================================================
// Auth Types
// ============================================================================

// AuthRequestBody contains the phone number to start a login.
type AuthRequestBody struct {
	Phone string `json:"phone" validate:"required" example:"+15550001122" description:"Phone number in international format"`
}

// AuthVerifyBody contains the verification code for a pending login.
type AuthVerifyBody struct {
	Phone    string `json:"phone" validate:"required" description:"Phone number the code was sent to"`
	Code     string `json:"code" validate:"required" description:"Verification code from Telegram"`
	Password string `json:"password,omitempty" description:"2FA password, when the account has one"`
}

// AuthVerifyResponse is returned after a successful login.
type AuthVerifyResponse struct {
	Status string `json:"status" description:"Login outcome"`
	Token  string `json:"token" description:"API token for subsequent requests"`
}

// AuthStatusResponse reports the Telegram client status.
type AuthStatusResponse struct {
	Status       string `json:"status" description:"Telegram client status: INITIALIZING, READY, UNAUTHORIZED, ERROR"`
	IsReady      bool   `json:"is_ready" description:"Whether the client is authorized and listening"`
	LoginPending bool   `json:"login_pending" description:"Whether a login flow is waiting for a code"`
}

// ============================================================================
// Filter Types
// ============================================================================

// FilterResponse represents a filter in API responses.
type FilterResponse struct {
	ID             int64     `json:"id" description:"Filter unique identifier"`
	Name           string    `json:"name" description:"Human-readable filter name"`
	Pattern        string    `json:"pattern,omitempty" description:"Regex pattern applied to message text"`
	Prompt         string    `json:"prompt,omitempty" description:"LLM relevance criteria, empty disables the LLM stage"`
	IncludeSources []string  `json:"include_sources" description:"Channel usernames the filter is limited to, empty allows all"`
	ExcludeSources []string  `json:"exclude_sources" description:"Channel usernames the filter never matches"`
	CreatedAt      time.Time `json:"created_at" description:"Record creation timestamp"`
	UpdatedAt      time.Time `json:"updated_at" description:"Last update timestamp"`
}

// FilterFromModel converts a filter model to its API representation.
func FilterFromModel(f *models.Filter) FilterResponse {
	return FilterResponse{
		ID:             f.ID,
		Name:           f.Name,
		Pattern:        f.Pattern,
		Prompt:         f.Prompt,
		IncludeSources: f.IncludeSources,
		ExcludeSources: f.ExcludeSources,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// FiltersFromModel converts a filter slice to API representations.
func FiltersFromModel(filters []models.Filter) []FilterResponse {
	out := make([]FilterResponse, 0, len(filters))
	for i := range filters {
		out = append(out, FilterFromModel(&filters[i]))
	}
	return out
}

// FiltersListResponse contains all stored filters.
type FiltersListResponse struct {
	Filters []FilterResponse `json:"filters" description:"List of filters"`
	Total   int              `json:"total" description:"Total number of filters"`
}

// FilterCreateRequest contains the request body for creating a filter.
type FilterCreateRequest struct {
	Name           string   `json:"name" validate:"required" description:"Human-readable filter name"`
	Pattern        string   `json:"pattern,omitempty" description:"Regex pattern applied to message text"`
	Prompt         string   `json:"prompt,omitempty" description:"LLM relevance criteria"`
	IncludeSources []string `json:"include_sources,omitempty" description:"Channel usernames the filter is limited to"`
	ExcludeSources []string `json:"exclude_sources,omitempty" description:"Channel usernames the filter never matches"`
}

// FilterUpdateRequest contains the request body for updating a filter.
type FilterUpdateRequest struct {
	Name           *string  `json:"name,omitempty" description:"New filter name"`
	Pattern        *string  `json:"pattern,omitempty" description:"New regex pattern"`
	Prompt         *string  `json:"prompt,omitempty" description:"New LLM criteria"`
	IncludeSources []string `json:"include_sources,omitempty" description:"Replacement include list"`
	ExcludeSources []string `json:"exclude_sources,omitempty" description:"Replacement exclude list"`
}

// FilterSourcesRequest replaces a filter's source lists.
type FilterSourcesRequest struct {
	IncludeSources []string `json:"include_sources" description:"Replacement include list"`
	ExcludeSources []string `json:"exclude_sources" description:"Replacement exclude list"`
}

// ============================================================================
// Topic Types
// ============================================================================

// TopicResponse represents a topic in API responses.
type TopicResponse struct {
	ID          int64     `json:"id" description:"Topic unique identifier"`
	Name        string    `json:"name" description:"Topic name"`
	Description string    `json:"description,omitempty" description:"Topic description used in the LLM prompt"`
	Channels    []string  `json:"channels" description:"Usernames of channels linked to the topic"`
	CreatedAt   time.Time `json:"created_at" description:"Record creation timestamp"`
}

// TopicFromModel converts a topic model to its API representation.
func TopicFromModel(t *models.Topic) TopicResponse {
	channels := t.Channels
	if channels == nil {
		channels = []string{}
	}
	return TopicResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Channels:    channels,
		CreatedAt:   t.CreatedAt,
	}
}

// TopicsListResponse contains all stored topics.
type TopicsListResponse struct {
	Topics []TopicResponse `json:"topics" description:"List of topics"`
	Total  int             `json:"total" description:"Total number of topics"`
}

// TopicCreateRequest contains the request body for creating a topic.
type TopicCreateRequest struct {
	Name        string   `json:"name" validate:"required" description:"Topic name"`
	Description string   `json:"description,omitempty" description:"Topic description used in the LLM prompt"`
	Channels    []string `json:"channels,omitempty" description:"Channel usernames to link on creation"`
}

// TopicUpdateRequest contains the request body for updating a topic.
type TopicUpdateRequest struct {
	Name        *string `json:"name,omitempty" description:"New topic name"`
	Description *string `json:"description,omitempty" description:"New topic description"`
}

// TopicChannelRequest links or unlinks a channel by username.
type TopicChannelRequest struct {
	Username string `json:"username" validate:"required" description:"Channel username, with or without @"`
}

// ============================================================================
// Channel Types
// ============================================================================

// ChannelResponse represents a monitored channel in API responses.
type ChannelResponse struct {
	ID        int64     `json:"id" description:"Channel unique identifier"`
	Username  string    `json:"username" description:"Normalized channel username"`
	Title     string    `json:"title,omitempty" description:"Channel title resolved from Telegram"`
	TGID      *int64    `json:"tg_id,omitempty" description:"Telegram channel id, set after first resolve"`
	CreatedAt time.Time `json:"created_at" description:"Record creation timestamp"`
}

// ChannelFromModel converts a channel model to its API representation.
func ChannelFromModel(c *models.Channel) ChannelResponse {
	return ChannelResponse{
		ID:        c.ID,
		Username:  c.Username,
		Title:     c.Title,
		TGID:      c.TGID,
		CreatedAt: c.CreatedAt,
	}
}

// ChannelsListResponse contains all monitored channels.
type ChannelsListResponse struct {
	Channels []ChannelResponse `json:"channels" description:"List of channels"`
	Total    int               `json:"total" description:"Total number of channels"`
}

// ChannelCreateRequest contains the request body for registering a channel.
type ChannelCreateRequest struct {
	Username string `json:"username" validate:"required" description:"Channel username, with or without @"`
}

// BackfillRequest contains the request body for a channel history backfill.
type BackfillRequest struct {
	Limit int `json:"limit,omitempty" default:"100" description:"Max messages to fetch (default 100, max 10000)"`
}

// ============================================================================
// Message and Post Types
// ============================================================================

// MessageResponse represents a retained message in API responses.
type MessageResponse struct {
	ID          uuid.UUID `json:"id" description:"Message unique identifier"`
	ChannelID   int64     `json:"channel_id" description:"Source channel id"`
	FilterID    int64     `json:"filter_id" description:"Filter that matched"`
	TGMessageID int64     `json:"tg_message_id" description:"Telegram message id within the channel"`
	Text        string    `json:"text" description:"Message text"`
	Date        time.Time `json:"date" description:"Original message timestamp"`
	CreatedAt   time.Time `json:"created_at" description:"Record creation timestamp"`
}

// MessageFromModel converts a message model to its API representation.
func MessageFromModel(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		FilterID:    m.FilterID,
		TGMessageID: m.TGMessageID,
		Text:        m.Text,
		Date:        m.Date,
		CreatedAt:   m.CreatedAt,
	}
}

// MessagesListResponse contains a page of retained messages.
type MessagesListResponse struct {
	Messages []MessageResponse `json:"messages" description:"List of retained messages"`
	Skip     int               `json:"skip" description:"Number of skipped items"`
	Limit    int               `json:"limit" description:"Page size"`
}

// PostResponse represents a classified post in API responses.
type PostResponse struct {
	ID          uuid.UUID `json:"id" description:"Post unique identifier"`
	ChannelID   int64     `json:"channel_id" description:"Source channel id"`
	TopicID     int64     `json:"topic_id" description:"Topic the post was classified under"`
	TGMessageID int64     `json:"tg_message_id" description:"Telegram message id within the channel"`
	Text        string    `json:"text" description:"Post text"`
	Date        time.Time `json:"date" description:"Original message timestamp"`
	CreatedAt   time.Time `json:"created_at" description:"Record creation timestamp"`
}

// PostFromModel converts a post model to its API representation.
func PostFromModel(p *models.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		ChannelID:   p.ChannelID,
		TopicID:     p.TopicID,
		TGMessageID: p.TGMessageID,
		Text:        p.Text,
		Date:        p.Date,
		CreatedAt:   p.CreatedAt,
	}
}

// PostsListResponse contains a page of classified posts.
type PostsListResponse struct {
	Posts []PostResponse `json:"posts" description:"List of classified posts"`
	Skip  int            `json:"skip" description:"Number of skipped items"`
	Limit int            `json:"limit" description:"Page size"`
}

// ============================================================================
// Stats Types
// ============================================================================

// StatsResponse contains aggregated monitor statistics.
type StatsResponse struct {
	TotalMessages int `json:"total_messages" description:"Total retained messages"`
	TodayMessages int `json:"today_messages" description:"Messages retained today"`
	TotalPosts    int `json:"total_posts" description:"Total classified posts"`
	TodayPosts    int `json:"today_posts" description:"Posts classified today"`
	Filters       int `json:"filters" description:"Number of configured filters"`
	Topics        int `json:"topics" description:"Number of configured topics"`
	Channels      int `json:"channels" description:"Number of monitored channels"`
}
