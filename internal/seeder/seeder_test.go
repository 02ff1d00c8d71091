package seeder

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertpustota/telegram-ai-monitor/internal/config"
	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

type mockChannels struct {
	channels map[string]*models.Channel
	nextID   int64
}

func newMockChannels() *mockChannels {
	return &mockChannels{channels: make(map[string]*models.Channel)}
}

func (m *mockChannels) GetOrCreateByUsername(ctx context.Context, username string) (*models.Channel, error) {
	normalized := models.NormalizeUsername(username)
	if ch, ok := m.channels[normalized]; ok {
		return ch, nil
	}
	m.nextID++
	ch := &models.Channel{ID: m.nextID, Username: normalized}
	m.channels[normalized] = ch
	return ch, nil
}

type mockTopics struct {
	topics []models.Topic
	links  map[int64][]int64
}

func newMockTopics() *mockTopics {
	return &mockTopics{links: make(map[int64][]int64)}
}

func (m *mockTopics) GetAll(ctx context.Context) ([]models.Topic, error) {
	return m.topics, nil
}

func (m *mockTopics) Create(ctx context.Context, t *models.Topic) error {
	t.ID = int64(len(m.topics) + 1)
	m.topics = append(m.topics, *t)
	return nil
}

func (m *mockTopics) AddChannel(ctx context.Context, topicID, channelID int64) error {
	m.links[topicID] = append(m.links[topicID], channelID)
	return nil
}

type mockFilters struct {
	filters []models.Filter
}

func (m *mockFilters) GetAll(ctx context.Context) ([]models.Filter, error) {
	return m.filters, nil
}

func (m *mockFilters) Create(ctx context.Context, f *models.Filter) error {
	f.ID = int64(len(m.filters) + 1)
	m.filters = append(m.filters, *f)
	return nil
}

func TestSeeder_Apply(t *testing.T) {
	channels := newMockChannels()
	topics := newMockTopics()
	filters := &mockFilters{}
	log := zerolog.Nop()

	s := New(channels, topics, filters, &log)

	seed := &config.Seed{
		Channels: []config.SeedChannel{
			{Username: "@technews"},
		},
		Topics: []config.SeedTopic{
			{Name: "AI", Description: "AI launches", Channels: []string{"ainews", "@technews"}},
		},
		Filters: []config.SeedFilter{
			{Name: "golang", Pattern: `(?i)\bgo(lang)?\b`, IncludeSources: []string{"@GoDigest"}},
		},
	}

	require.NoError(t, s.Apply(context.Background(), seed))

	assert.Len(t, channels.channels, 2, "topic channels should be registered too")
	require.Len(t, topics.topics, 1)
	assert.Len(t, topics.links[topics.topics[0].ID], 2)
	require.Len(t, filters.filters, 1)
	assert.Equal(t, []string{"godigest"}, filters.filters[0].IncludeSources)
}

func TestSeeder_Apply_SkipsExisting(t *testing.T) {
	channels := newMockChannels()
	topics := newMockTopics()
	topics.topics = []models.Topic{{ID: 7, Name: "AI"}}
	filters := &mockFilters{filters: []models.Filter{{ID: 3, Name: "golang", Pattern: "old"}}}
	log := zerolog.Nop()

	s := New(channels, topics, filters, &log)

	seed := &config.Seed{
		Topics: []config.SeedTopic{
			{Name: "AI", Channels: []string{"ainews"}},
		},
		Filters: []config.SeedFilter{
			{Name: "golang", Pattern: "new"},
		},
	}

	require.NoError(t, s.Apply(context.Background(), seed))

	assert.Len(t, topics.topics, 1, "existing topic must not be duplicated")
	assert.Len(t, topics.links[7], 1, "channels still get linked to existing topics")
	require.Len(t, filters.filters, 1)
	assert.Equal(t, "old", filters.filters[0].Pattern, "existing filter must not be overwritten")
}
