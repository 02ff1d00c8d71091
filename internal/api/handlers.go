// Package api provides the authenticated REST API of the monitor.
package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-fuego/fuego"
	"github.com/google/uuid"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
	"github.com/robertpustota/telegram-ai-monitor/internal/repository"
	"github.com/robertpustota/telegram-ai-monitor/internal/telegram"
	"github.com/robertpustota/telegram-ai-monitor/internal/web"
)

// ============================================================================
// Health
// ============================================================================

func (s *Server) healthCheck(c fuego.ContextNoBody) (HealthResponse, error) {
	return HealthResponse{
		Status:  "ok",
		Version: "dev",
	}, nil
}

// ============================================================================
// Auth Handlers
// ============================================================================

func (s *Server) getAuthStatus(c fuego.ContextNoBody) (AuthStatusResponse, error) {
	status := s.deps.Telegram.GetStatus()
	return AuthStatusResponse{
		Status:       string(status),
		IsReady:      status == telegram.StatusReady,
		LoginPending: s.deps.Telegram.HasPendingLogin(""),
	}, nil
}

func (s *Server) requestLoginCode(c fuego.ContextWithBody[AuthRequestBody]) (StatusResponse, error) {
	body, err := c.Body()
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}
	if body.Phone == "" {
		return StatusResponse{}, fuego.BadRequestError{Detail: "Phone is required"}
	}

	if err := s.deps.Telegram.BeginLogin(c.Context(), body.Phone); err != nil {
		return StatusResponse{}, mapLoginError(err)
	}

	return StatusResponse{Status: "code_sent"}, nil
}

func (s *Server) verifyLoginCode(c fuego.ContextWithBody[AuthVerifyBody]) (AuthVerifyResponse, error) {
	body, err := c.Body()
	if err != nil {
		return AuthVerifyResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}
	if body.Phone == "" || body.Code == "" {
		return AuthVerifyResponse{}, fuego.BadRequestError{Detail: "Phone and code are required"}
	}

	if err := s.deps.Telegram.CompleteLogin(c.Context(), body.Phone, body.Code, body.Password); err != nil {
		return AuthVerifyResponse{}, mapLoginError(err)
	}

	token, err := s.deps.TokensRepo.Create(c.Context(), "login "+body.Phone)
	if err != nil {
		return AuthVerifyResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	if s.deps.Hub != nil {
		s.deps.Hub.Broadcast(web.AuthStatusEvent(string(s.deps.Telegram.GetStatus())))
	}

	return AuthVerifyResponse{
		Status: "authorized",
		Token:  token.Token,
	}, nil
}

func (s *Server) cancelLogin(c fuego.ContextWithBody[AuthRequestBody]) (StatusResponse, error) {
	body, err := c.Body()
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	if !s.deps.Telegram.HasPendingLogin(body.Phone) {
		return StatusResponse{}, fuego.BadRequestError{Detail: "No pending login"}
	}

	s.deps.Telegram.CancelLogin(body.Phone)
	return StatusResponse{Status: "canceled"}, nil
}

// mapLoginError converts login flow errors into HTTP error responses.
func mapLoginError(err error) error {
	switch {
	case errors.Is(err, telegram.ErrAlreadyAuthorized),
		errors.Is(err, telegram.ErrLoginInProgress),
		errors.Is(err, telegram.ErrNoPendingLogin),
		errors.Is(err, telegram.ErrPhoneInvalid),
		errors.Is(err, telegram.ErrPhoneBanned),
		errors.Is(err, telegram.ErrCodeInvalid),
		errors.Is(err, telegram.ErrCodeExpired),
		errors.Is(err, telegram.ErrPasswordRequired),
		errors.Is(err, telegram.ErrPasswordInvalid):
		return fuego.BadRequestError{Detail: err.Error()}
	}
	return fuego.InternalServerError{Detail: err.Error()}
}

// ============================================================================
// Tokens Handlers
// ============================================================================

func (s *Server) revokeToken(c fuego.ContextNoBody) (StatusResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: "Invalid token ID"}
	}

	found, err := s.deps.TokensRepo.Revoke(c.Context(), id)
	if err != nil {
		return StatusResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return StatusResponse{}, fuego.NotFoundError{Detail: "Token not found"}
	}

	return StatusResponse{Status: "revoked"}, nil
}

// ============================================================================
// Filters Handlers
// ============================================================================

func (s *Server) listFilters(c fuego.ContextNoBody) (FiltersListResponse, error) {
	filters, err := s.deps.FiltersRepo.GetAll(c.Context())
	if err != nil {
		return FiltersListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	opts := s.listOptions(c)
	total := len(filters)
	if opts.Skip >= total {
		filters = nil
	} else {
		end := opts.Skip + opts.Limit
		if end > total {
			end = total
		}
		filters = filters[opts.Skip:end]
	}

	return FiltersListResponse{
		Filters: FiltersFromModel(filters),
		Total:   total,
	}, nil
}

func (s *Server) createFilter(c fuego.ContextWithBody[FilterCreateRequest]) (FilterResponse, error) {
	body, err := c.Body()
	if err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}
	if body.Name == "" {
		return FilterResponse{}, fuego.BadRequestError{Detail: "Name is required"}
	}

	filter := &models.Filter{
		Name:           body.Name,
		Pattern:        body.Pattern,
		Prompt:         body.Prompt,
		IncludeSources: normalizeUsernames(body.IncludeSources),
		ExcludeSources: normalizeUsernames(body.ExcludeSources),
	}
	if err := filter.ValidatePattern(); err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: "Invalid pattern: " + err.Error()}
	}

	if err := s.deps.FiltersRepo.Create(c.Context(), filter); err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return FilterFromModel(filter), nil
}

func (s *Server) getFilter(c fuego.ContextNoBody) (FilterResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: "Invalid filter ID"}
	}

	filter, err := s.deps.FiltersRepo.GetByID(c.Context(), id)
	if err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if filter == nil {
		return FilterResponse{}, fuego.NotFoundError{Detail: "Filter not found"}
	}

	return FilterFromModel(filter), nil
}

func (s *Server) updateFilter(c fuego.ContextWithBody[FilterUpdateRequest]) (FilterResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: "Invalid filter ID"}
	}

	filter, err := s.deps.FiltersRepo.GetByID(c.Context(), id)
	if err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if filter == nil {
		return FilterResponse{}, fuego.NotFoundError{Detail: "Filter not found"}
	}

	body, err := c.Body()
	if err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	if body.Name != nil {
		filter.Name = *body.Name
	}
	if body.Pattern != nil {
		filter.Pattern = *body.Pattern
	}
	if body.Prompt != nil {
		filter.Prompt = *body.Prompt
	}
	if body.IncludeSources != nil {
		filter.IncludeSources = normalizeUsernames(body.IncludeSources)
	}
	if body.ExcludeSources != nil {
		filter.ExcludeSources = normalizeUsernames(body.ExcludeSources)
	}

	if err := filter.ValidatePattern(); err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: "Invalid pattern: " + err.Error()}
	}

	if _, err := s.deps.FiltersRepo.Update(c.Context(), filter); err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return FilterFromModel(filter), nil
}

func (s *Server) updateFilterSources(c fuego.ContextWithBody[FilterSourcesRequest]) (FilterResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: "Invalid filter ID"}
	}

	body, err := c.Body()
	if err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	include := normalizeUsernames(body.IncludeSources)
	exclude := normalizeUsernames(body.ExcludeSources)

	found, err := s.deps.FiltersRepo.UpdateSources(c.Context(), id, include, exclude)
	if err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return FilterResponse{}, fuego.NotFoundError{Detail: "Filter not found"}
	}

	filter, err := s.deps.FiltersRepo.GetByID(c.Context(), id)
	if err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	return FilterFromModel(filter), nil
}

func (s *Server) removeFilterSources(c fuego.ContextWithBody[FilterSourcesRequest]) (FilterResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: "Invalid filter ID"}
	}

	body, err := c.Body()
	if err != nil {
		return FilterResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	filter, err := s.deps.FiltersRepo.GetByID(c.Context(), id)
	if err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if filter == nil {
		return FilterResponse{}, fuego.NotFoundError{Detail: "Filter not found"}
	}

	include := subtractSources(filter.IncludeSources, normalizeUsernames(body.IncludeSources))
	exclude := subtractSources(filter.ExcludeSources, normalizeUsernames(body.ExcludeSources))

	found, err := s.deps.FiltersRepo.UpdateSources(c.Context(), id, include, exclude)
	if err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return FilterResponse{}, fuego.NotFoundError{Detail: "Filter not found"}
	}

	filter, err = s.deps.FiltersRepo.GetByID(c.Context(), id)
	if err != nil {
		return FilterResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	return FilterFromModel(filter), nil
}

func (s *Server) deleteFilter(c fuego.ContextNoBody) (StatusResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: "Invalid filter ID"}
	}

	found, err := s.deps.FiltersRepo.Delete(c.Context(), id)
	if err != nil {
		return StatusResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return StatusResponse{}, fuego.NotFoundError{Detail: "Filter not found"}
	}

	return StatusResponse{Status: "deleted"}, nil
}

func (s *Server) listFilterMessages(c fuego.ContextNoBody) (MessagesListResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return MessagesListResponse{}, fuego.BadRequestError{Detail: "Invalid filter ID"}
	}

	filter, err := s.deps.FiltersRepo.GetByID(c.Context(), id)
	if err != nil {
		return MessagesListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if filter == nil {
		return MessagesListResponse{}, fuego.NotFoundError{Detail: "Filter not found"}
	}

	opts := s.listOptions(c)
	messages, err := s.deps.MessagesRepo.List(c.Context(), id, 0, opts)
	if err != nil {
		return MessagesListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, MessageFromModel(&messages[i]))
	}
	return MessagesListResponse{Messages: out, Skip: opts.Skip, Limit: opts.Limit}, nil
}

// ============================================================================
// Topics Handlers
// ============================================================================

func (s *Server) listTopics(c fuego.ContextNoBody) (TopicsListResponse, error) {
	topics, err := s.deps.TopicsRepo.GetAll(c.Context())
	if err != nil {
		return TopicsListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	out := make([]TopicResponse, 0, len(topics))
	for i := range topics {
		out = append(out, TopicFromModel(&topics[i]))
	}
	return TopicsListResponse{Topics: out, Total: len(out)}, nil
}

func (s *Server) createTopic(c fuego.ContextWithBody[TopicCreateRequest]) (TopicResponse, error) {
	body, err := c.Body()
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}
	if body.Name == "" {
		return TopicResponse{}, fuego.BadRequestError{Detail: "Name is required"}
	}

	topic := &models.Topic{
		Name:        body.Name,
		Description: body.Description,
	}
	if err := s.deps.TopicsRepo.Create(c.Context(), topic); err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	for _, username := range body.Channels {
		channel, err := s.deps.ChannelsRepo.GetOrCreateByUsername(c.Context(), username)
		if err != nil {
			return TopicResponse{}, fuego.BadRequestError{Detail: "Invalid channel " + username + ": " + err.Error()}
		}
		if err := s.deps.TopicsRepo.AddChannel(c.Context(), topic.ID, channel.ID); err != nil {
			return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
		}
		topic.Channels = append(topic.Channels, channel.Username)
	}

	return TopicFromModel(topic), nil
}

func (s *Server) getTopic(c fuego.ContextNoBody) (TopicResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: "Invalid topic ID"}
	}

	topic, err := s.deps.TopicsRepo.GetByID(c.Context(), id)
	if err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if topic == nil {
		return TopicResponse{}, fuego.NotFoundError{Detail: "Topic not found"}
	}

	return TopicFromModel(topic), nil
}

func (s *Server) updateTopic(c fuego.ContextWithBody[TopicUpdateRequest]) (TopicResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: "Invalid topic ID"}
	}

	topic, err := s.deps.TopicsRepo.GetByID(c.Context(), id)
	if err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if topic == nil {
		return TopicResponse{}, fuego.NotFoundError{Detail: "Topic not found"}
	}

	body, err := c.Body()
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	if body.Name != nil {
		topic.Name = *body.Name
	}
	if body.Description != nil {
		topic.Description = *body.Description
	}

	if _, err := s.deps.TopicsRepo.Update(c.Context(), topic); err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return TopicFromModel(topic), nil
}

func (s *Server) deleteTopic(c fuego.ContextNoBody) (StatusResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: "Invalid topic ID"}
	}

	found, err := s.deps.TopicsRepo.Delete(c.Context(), id)
	if err != nil {
		return StatusResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return StatusResponse{}, fuego.NotFoundError{Detail: "Topic not found"}
	}

	return StatusResponse{Status: "deleted"}, nil
}

func (s *Server) addTopicChannel(c fuego.ContextWithBody[TopicChannelRequest]) (TopicResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: "Invalid topic ID"}
	}

	topic, err := s.deps.TopicsRepo.GetByID(c.Context(), id)
	if err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if topic == nil {
		return TopicResponse{}, fuego.NotFoundError{Detail: "Topic not found"}
	}

	body, err := c.Body()
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}
	if body.Username == "" {
		return TopicResponse{}, fuego.BadRequestError{Detail: "Username is required"}
	}

	channel, err := s.deps.ChannelsRepo.GetOrCreateByUsername(c.Context(), body.Username)
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}
	if err := s.deps.TopicsRepo.AddChannel(c.Context(), topic.ID, channel.ID); err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	updated, err := s.deps.TopicsRepo.GetByID(c.Context(), id)
	if err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	return TopicFromModel(updated), nil
}

func (s *Server) removeTopicChannel(c fuego.ContextWithBody[TopicChannelRequest]) (TopicResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: "Invalid topic ID"}
	}

	body, err := c.Body()
	if err != nil {
		return TopicResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	channel, err := s.deps.ChannelsRepo.GetByUsername(c.Context(), body.Username)
	if err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if channel == nil {
		return TopicResponse{}, fuego.NotFoundError{Detail: "Channel not found"}
	}

	found, err := s.deps.TopicsRepo.RemoveChannel(c.Context(), id, channel.ID)
	if err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return TopicResponse{}, fuego.NotFoundError{Detail: "Channel is not linked to the topic"}
	}

	updated, err := s.deps.TopicsRepo.GetByID(c.Context(), id)
	if err != nil {
		return TopicResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if updated == nil {
		return TopicResponse{}, fuego.NotFoundError{Detail: "Topic not found"}
	}
	return TopicFromModel(updated), nil
}

// ============================================================================
// Channels Handlers
// ============================================================================

func (s *Server) listChannels(c fuego.ContextNoBody) (ChannelsListResponse, error) {
	channels, err := s.deps.ChannelsRepo.GetAll(c.Context())
	if err != nil {
		return ChannelsListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	out := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		out = append(out, ChannelFromModel(&channels[i]))
	}
	return ChannelsListResponse{Channels: out, Total: len(out)}, nil
}

func (s *Server) createChannel(c fuego.ContextWithBody[ChannelCreateRequest]) (ChannelResponse, error) {
	body, err := c.Body()
	if err != nil {
		return ChannelResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}
	if body.Username == "" {
		return ChannelResponse{}, fuego.BadRequestError{Detail: "Username is required"}
	}

	channel, err := s.deps.ChannelsRepo.GetOrCreateByUsername(c.Context(), body.Username)
	if err != nil {
		return ChannelResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	return ChannelFromModel(channel), nil
}

func (s *Server) getChannel(c fuego.ContextNoBody) (ChannelResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return ChannelResponse{}, fuego.BadRequestError{Detail: "Invalid channel ID"}
	}

	channel, err := s.deps.ChannelsRepo.GetByID(c.Context(), id)
	if err != nil {
		return ChannelResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if channel == nil {
		return ChannelResponse{}, fuego.NotFoundError{Detail: "Channel not found"}
	}

	return ChannelFromModel(channel), nil
}

func (s *Server) deleteChannel(c fuego.ContextNoBody) (StatusResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: "Invalid channel ID"}
	}

	found, err := s.deps.ChannelsRepo.Delete(c.Context(), id)
	if err != nil {
		return StatusResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return StatusResponse{}, fuego.NotFoundError{Detail: "Channel not found"}
	}

	return StatusResponse{Status: "deleted"}, nil
}

func (s *Server) backfillChannel(c fuego.ContextWithBody[BackfillRequest]) (StatusResponse, error) {
	id, err := parseID(c.PathParam("id"))
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: "Invalid channel ID"}
	}

	if s.deps.Telegram.GetStatus() != telegram.StatusReady {
		return StatusResponse{}, fuego.ConflictError{Detail: "Telegram client is not authorized"}
	}

	channel, err := s.deps.ChannelsRepo.GetByID(c.Context(), id)
	if err != nil {
		return StatusResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if channel == nil {
		return StatusResponse{}, fuego.NotFoundError{Detail: "Channel not found"}
	}

	body, err := c.Body()
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	limit := body.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 10000 {
		limit = 10000
	}

	// Run backfill in background, progress arrives over the WebSocket
	go func() {
		_, _ = s.deps.Listener.Backfill(context.Background(), id, limit)
	}()

	return StatusResponse{Status: "started"}, nil
}

// ============================================================================
// Messages Handlers
// ============================================================================

func (s *Server) listMessages(c fuego.ContextNoBody) (MessagesListResponse, error) {
	filterID := parseInt64WithDefault(c.QueryParam("filter_id"), 0)
	channelID := parseInt64WithDefault(c.QueryParam("channel_id"), 0)
	opts := s.listOptions(c)

	messages, err := s.deps.MessagesRepo.List(c.Context(), filterID, channelID, opts)
	if err != nil {
		return MessagesListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, MessageFromModel(&messages[i]))
	}
	return MessagesListResponse{Messages: out, Skip: opts.Skip, Limit: opts.Limit}, nil
}

func (s *Server) getMessage(c fuego.ContextNoBody) (MessageResponse, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return MessageResponse{}, fuego.BadRequestError{Detail: "Invalid message ID"}
	}

	message, err := s.deps.MessagesRepo.GetByID(c.Context(), id)
	if err != nil {
		return MessageResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if message == nil {
		return MessageResponse{}, fuego.NotFoundError{Detail: "Message not found"}
	}

	return MessageFromModel(message), nil
}

func (s *Server) deleteMessage(c fuego.ContextNoBody) (StatusResponse, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: "Invalid message ID"}
	}

	found, err := s.deps.MessagesRepo.Delete(c.Context(), id)
	if err != nil {
		return StatusResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return StatusResponse{}, fuego.NotFoundError{Detail: "Message not found"}
	}

	return StatusResponse{Status: "deleted"}, nil
}

// ============================================================================
// Posts Handlers
// ============================================================================

func (s *Server) listPosts(c fuego.ContextNoBody) (PostsListResponse, error) {
	topicID := parseInt64WithDefault(c.QueryParam("topic_id"), 0)
	channelID := parseInt64WithDefault(c.QueryParam("channel_id"), 0)
	opts := s.listOptions(c)

	posts, err := s.deps.PostsRepo.List(c.Context(), topicID, channelID, opts)
	if err != nil {
		return PostsListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, PostFromModel(&posts[i]))
	}
	return PostsListResponse{Posts: out, Skip: opts.Skip, Limit: opts.Limit}, nil
}

func (s *Server) getPost(c fuego.ContextNoBody) (PostResponse, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return PostResponse{}, fuego.BadRequestError{Detail: "Invalid post ID"}
	}

	post, err := s.deps.PostsRepo.GetByID(c.Context(), id)
	if err != nil {
		return PostResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if post == nil {
		return PostResponse{}, fuego.NotFoundError{Detail: "Post not found"}
	}

	return PostFromModel(post), nil
}

func (s *Server) deletePost(c fuego.ContextNoBody) (StatusResponse, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return StatusResponse{}, fuego.BadRequestError{Detail: "Invalid post ID"}
	}

	found, err := s.deps.PostsRepo.Delete(c.Context(), id)
	if err != nil {
		return StatusResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if !found {
		return StatusResponse{}, fuego.NotFoundError{Detail: "Post not found"}
	}

	return StatusResponse{Status: "deleted"}, nil
}

// ============================================================================
// Stats Handlers
// ============================================================================

func (s *Server) getStats(c fuego.ContextNoBody) (StatsResponse, error) {
	stats, err := s.deps.StatsRepo.GetStats(c.Context())
	if err != nil {
		return StatsResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return StatsResponse{
		TotalMessages: stats.TotalMessages,
		TodayMessages: stats.TodayMessages,
		TotalPosts:    stats.TotalPosts,
		TodayPosts:    stats.TodayPosts,
		Filters:       stats.Filters,
		Topics:        stats.Topics,
		Channels:      stats.Channels,
	}, nil
}

// ============================================================================
// Helpers
// ============================================================================

// listOptions parses pagination and date window query parameters.
func (s *Server) listOptions(c fuego.ContextNoBody) repository.ListOptions {
	opts := repository.ListOptions{
		Skip:   parseIntWithDefault(c.QueryParam("skip"), 0),
		Limit:  parseIntWithDefault(c.QueryParam("limit"), 0),
		Period: models.Period(c.QueryParam("period")),
	}
	if from := parseTime(c.QueryParam("from")); from != nil {
		opts.From = from
	}
	if to := parseTime(c.QueryParam("to")); to != nil {
		opts.To = to
	}
	opts.Normalize(s.deps.PageDefaultLimit, s.deps.PageMaxLimit, time.Now())
	return opts
}

// subtractSources returns sources without any of the removed usernames.
func subtractSources(sources, removed []string) []string {
	if len(removed) == 0 {
		return sources
	}
	drop := make(map[string]struct{}, len(removed))
	for _, r := range removed {
		drop[r] = struct{}{}
	}
	out := make([]string, 0, len(sources))
	for _, src := range sources {
		if _, ok := drop[src]; !ok {
			out = append(out, src)
		}
	}
	return out
}

func normalizeUsernames(usernames []string) []string {
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if n := models.NormalizeUsername(u); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseInt64WithDefault(s string, defaultVal int64) int64 {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
