// Package seeder applies declarative channel, topic and filter
// definitions from a YAML seed file at startup.
package seeder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robertpustota/telegram-ai-monitor/internal/config"
	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// ChannelsRepo is the channel storage used by the seeder.
type ChannelsRepo interface {
	GetOrCreateByUsername(ctx context.Context, username string) (*models.Channel, error)
}

// TopicsRepo is the topic storage used by the seeder.
type TopicsRepo interface {
	GetAll(ctx context.Context) ([]models.Topic, error)
	Create(ctx context.Context, t *models.Topic) error
	AddChannel(ctx context.Context, topicID, channelID int64) error
}

// FiltersRepo is the filter storage used by the seeder.
type FiltersRepo interface {
	GetAll(ctx context.Context) ([]models.Filter, error)
	Create(ctx context.Context, f *models.Filter) error
}

// Seeder upserts seed entries into the database. Topics and filters are
// matched by name and never overwritten, so a seed file can be applied
// on every start.
type Seeder struct {
	channels ChannelsRepo
	topics   TopicsRepo
	filters  FiltersRepo
	log      *zerolog.Logger
}

// New creates a Seeder.
func New(channels ChannelsRepo, topics TopicsRepo, filters FiltersRepo, log *zerolog.Logger) *Seeder {
	return &Seeder{
		channels: channels,
		topics:   topics,
		filters:  filters,
		log:      log,
	}
}

// Apply inserts seed entries that do not exist yet.
func (s *Seeder) Apply(ctx context.Context, seed *config.Seed) error {
	for _, ch := range seed.Channels {
		if _, err := s.channels.GetOrCreateByUsername(ctx, ch.Username); err != nil {
			return fmt.Errorf("seed channel %q: %w", ch.Username, err)
		}
	}

	if err := s.applyTopics(ctx, seed.Topics); err != nil {
		return err
	}
	if err := s.applyFilters(ctx, seed.Filters); err != nil {
		return err
	}

	s.log.Info().
		Int("channels", len(seed.Channels)).
		Int("topics", len(seed.Topics)).
		Int("filters", len(seed.Filters)).
		Msg("seed applied")
	return nil
}

func (s *Seeder) applyTopics(ctx context.Context, topics []config.SeedTopic) error {
	existing, err := s.topics.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	byName := make(map[string]int64, len(existing))
	for _, t := range existing {
		byName[t.Name] = t.ID
	}

	for _, st := range topics {
		topicID, ok := byName[st.Name]
		if !ok {
			topic := &models.Topic{Name: st.Name, Description: st.Description}
			if err := s.topics.Create(ctx, topic); err != nil {
				return fmt.Errorf("seed topic %q: %w", st.Name, err)
			}
			topicID = topic.ID
		}

		for _, username := range st.Channels {
			channel, err := s.channels.GetOrCreateByUsername(ctx, username)
			if err != nil {
				return fmt.Errorf("seed topic %q channel %q: %w", st.Name, username, err)
			}
			if err := s.topics.AddChannel(ctx, topicID, channel.ID); err != nil {
				return fmt.Errorf("seed topic %q channel %q: %w", st.Name, username, err)
			}
		}
	}
	return nil
}

func (s *Seeder) applyFilters(ctx context.Context, filters []config.SeedFilter) error {
	existing, err := s.filters.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list filters: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, f := range existing {
		seen[f.Name] = true
	}

	for _, sf := range filters {
		if seen[sf.Name] {
			continue
		}
		filter := &models.Filter{
			Name:           sf.Name,
			Pattern:        sf.Pattern,
			Prompt:         sf.Prompt,
			IncludeSources: normalize(sf.IncludeSources),
			ExcludeSources: normalize(sf.ExcludeSources),
		}
		if err := s.filters.Create(ctx, filter); err != nil {
			return fmt.Errorf("seed filter %q: %w", sf.Name, err)
		}
	}
	return nil
}

func normalize(usernames []string) []string {
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if n := models.NormalizeUsername(u); n != "" {
			out = append(out, n)
		}
	}
	return out
}
