// Package classifier runs incoming messages through the two-stage filter
// pipeline and topic classification, persisting what passes.
package classifier

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/rs/zerolog"

	"github.com/robertpustota/telegram-ai-monitor/internal/listener"
	"github.com/robertpustota/telegram-ai-monitor/internal/llm"
	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// LLMClient abstracts the LLM provider
type LLMClient interface {
	CheckRelevance(ctx context.Context, prompts *llm.PromptConfig, vars map[string]string) (bool, error)
}

// FiltersRepo lists the stored filters
type FiltersRepo interface {
	GetAll(ctx context.Context) ([]models.Filter, error)
}

// TopicsRepo lists topics linked to a channel
type TopicsRepo interface {
	GetByChannelID(ctx context.Context, channelID int64) ([]models.Topic, error)
}

// MessagesRepo persists filter matches
type MessagesRepo interface {
	Create(ctx context.Context, m *models.Message) (bool, error)
}

// PostsRepo persists topic classifications
type PostsRepo interface {
	Create(ctx context.Context, p *models.Post) (bool, error)
}

// EventPublisher publishes classification outcomes
type EventPublisher interface {
	PublishAccepted(ctx context.Context, event AcceptedEvent) error
	PublishPost(ctx context.Context, event PostEvent) error
}

// Engine evaluates one incoming message against all filters and the
// topics of its channel. A filter matches when the source passes its
// include/exclude lists, its regex matches (when set) and the LLM
// relevance check passes (when a prompt is set).
type Engine struct {
	llm       LLMClient
	filters   FiltersRepo
	topics    TopicsRepo
	messages  MessagesRepo
	posts     PostsRepo
	publisher EventPublisher
	log       *zerolog.Logger

	filterPrompt *llm.PromptConfig
	topicPrompt  *llm.PromptConfig

	regexMu    sync.Mutex
	regexCache map[string]*regexp.Regexp
}

// NewEngine creates a classification engine
func NewEngine(
	llmClient LLMClient,
	filters FiltersRepo,
	topics TopicsRepo,
	messages MessagesRepo,
	posts PostsRepo,
	publisher EventPublisher,
	log *zerolog.Logger,
) *Engine {
	return &Engine{
		llm:          llmClient,
		filters:      filters,
		topics:       topics,
		messages:     messages,
		posts:        posts,
		publisher:    publisher,
		log:          log,
		filterPrompt: llm.FilterPrompt,
		topicPrompt:  llm.TopicPrompt,
		regexCache:   make(map[string]*regexp.Regexp),
	}
}

// SetPrompts overrides the built-in prompts. A nil argument keeps the
// corresponding default.
func (e *Engine) SetPrompts(filter, topic *llm.PromptConfig) {
	if filter != nil {
		e.filterPrompt = filter
	}
	if topic != nil {
		e.topicPrompt = topic
	}
}

// Process runs a single incoming message through filters and topics.
// Transient failures (LLM, DB) return an error so the event is retried;
// matching a filter the message was already stored for is not an error.
func (e *Engine) Process(ctx context.Context, event listener.MessageEvent) error {
	if err := e.runFilters(ctx, event); err != nil {
		return err
	}
	return e.runTopics(ctx, event)
}

func (e *Engine) runFilters(ctx context.Context, event listener.MessageEvent) error {
	filters, err := e.filters.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load filters: %w", err)
	}

	for i := range filters {
		f := &filters[i]

		matched, err := e.filterMatches(ctx, f, event)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}

		msg := &models.Message{
			ChannelID:   event.ChannelID,
			FilterID:    f.ID,
			TGMessageID: event.MessageID,
			Text:        event.Text,
			Date:        event.Date,
		}
		created, err := e.messages.Create(ctx, msg)
		if err != nil {
			return fmt.Errorf("store message: %w", err)
		}
		if !created {
			// already retained for this filter, skip the event
			continue
		}

		e.log.Info().
			Str("filter", f.Name).
			Str("channel", event.Username).
			Int64("message_id", event.MessageID).
			Msg("message accepted")

		accepted := AcceptedEvent{
			MessageID:   msg.ID,
			FilterID:    f.ID,
			FilterName:  f.Name,
			ChannelID:   event.ChannelID,
			Username:    event.Username,
			TGMessageID: event.MessageID,
			Text:        event.Text,
			Date:        event.Date,
		}
		if err := e.publisher.PublishAccepted(ctx, accepted); err != nil {
			e.log.Error().Err(err).Msg("publish accepted event failed")
		}
	}
	return nil
}

// filterMatches applies the filter stages in order of cost: source lists,
// regex, then the LLM check.
func (e *Engine) filterMatches(ctx context.Context, f *models.Filter, event listener.MessageEvent) (bool, error) {
	if !f.AllowsSource(event.Username) {
		return false, nil
	}

	if f.Pattern != "" {
		re, err := e.compile(f.Pattern)
		if err != nil {
			e.log.Warn().Err(err).Str("filter", f.Name).Msg("invalid filter pattern, skipping")
			return false, nil
		}
		if !re.MatchString(event.Text) {
			return false, nil
		}
	}

	if f.HasPrompt() {
		relevant, err := e.llm.CheckRelevance(ctx, e.filterPrompt, map[string]string{
			"CRITERIA": f.Prompt,
			"CONTENT":  event.Text,
		})
		if err != nil {
			return false, fmt.Errorf("relevance check for filter %q: %w", f.Name, err)
		}
		if !relevant {
			return false, nil
		}
	}

	return true, nil
}

func (e *Engine) runTopics(ctx context.Context, event listener.MessageEvent) error {
	topics, err := e.topics.GetByChannelID(ctx, event.ChannelID)
	if err != nil {
		return fmt.Errorf("load topics: %w", err)
	}

	for _, topic := range topics {
		relevant, err := e.llm.CheckRelevance(ctx, e.topicPrompt, map[string]string{
			"TOPIC":       topic.Name,
			"DESCRIPTION": topic.Description,
			"CONTENT":     event.Text,
		})
		if err != nil {
			return fmt.Errorf("relevance check for topic %q: %w", topic.Name, err)
		}
		if !relevant {
			continue
		}

		post := &models.Post{
			ChannelID:   event.ChannelID,
			TopicID:     topic.ID,
			TGMessageID: event.MessageID,
			Text:        event.Text,
			Date:        event.Date,
		}
		created, err := e.posts.Create(ctx, post)
		if err != nil {
			return fmt.Errorf("store post: %w", err)
		}
		if !created {
			continue
		}

		e.log.Info().
			Str("topic", topic.Name).
			Str("channel", event.Username).
			Int64("message_id", event.MessageID).
			Msg("post classified")

		pe := PostEvent{
			PostID:      post.ID,
			TopicID:     topic.ID,
			TopicName:   topic.Name,
			ChannelID:   event.ChannelID,
			Username:    event.Username,
			TGMessageID: event.MessageID,
			Text:        event.Text,
			Date:        event.Date,
		}
		if err := e.publisher.PublishPost(ctx, pe); err != nil {
			e.log.Error().Err(err).Msg("publish post event failed")
		}
	}
	return nil
}

func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	e.regexMu.Lock()
	defer e.regexMu.Unlock()

	if re, ok := e.regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	e.regexCache[pattern] = re
	return re, nil
}
