package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/robertpustota/telegram-ai-monitor/internal/listener"
	"github.com/robertpustota/telegram-ai-monitor/internal/models"
	"github.com/robertpustota/telegram-ai-monitor/internal/repository"
	"github.com/robertpustota/telegram-ai-monitor/internal/telegram"
)

// Mock implementations for testing

const testToken = "test-token"

type mockTokensRepo struct {
	revoked []int64
}

func (m *mockTokensRepo) Create(ctx context.Context, name string) (*models.APIToken, error) {
	return &models.APIToken{ID: 1, Token: testToken, Name: name, IsActive: true}, nil
}

func (m *mockTokensRepo) GetActiveByToken(ctx context.Context, token string) (*models.APIToken, error) {
	if token == testToken {
		return &models.APIToken{ID: 1, Token: testToken, IsActive: true}, nil
	}
	return nil, nil
}

func (m *mockTokensRepo) Revoke(ctx context.Context, id int64) (bool, error) {
	if id != 1 {
		return false, nil
	}
	m.revoked = append(m.revoked, id)
	return true, nil
}

type mockFiltersRepo struct {
	filters []models.Filter
}

func (m *mockFiltersRepo) Create(ctx context.Context, f *models.Filter) error {
	f.ID = int64(len(m.filters) + 1)
	m.filters = append(m.filters, *f)
	return nil
}

func (m *mockFiltersRepo) GetByID(ctx context.Context, id int64) (*models.Filter, error) {
	for i := range m.filters {
		if m.filters[i].ID == id {
			return &m.filters[i], nil
		}
	}
	return nil, nil
}

func (m *mockFiltersRepo) GetAll(ctx context.Context) ([]models.Filter, error) {
	return m.filters, nil
}

func (m *mockFiltersRepo) Update(ctx context.Context, f *models.Filter) (bool, error) {
	return true, nil
}

func (m *mockFiltersRepo) UpdateSources(ctx context.Context, id int64, include, exclude []string) (bool, error) {
	for i := range m.filters {
		if m.filters[i].ID == id {
			m.filters[i].IncludeSources = include
			m.filters[i].ExcludeSources = exclude
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFiltersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	for _, f := range m.filters {
		if f.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type mockTopicsRepo struct {
	topics []models.Topic
}

func (m *mockTopicsRepo) Create(ctx context.Context, t *models.Topic) error {
	t.ID = int64(len(m.topics) + 1)
	m.topics = append(m.topics, *t)
	return nil
}

func (m *mockTopicsRepo) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	for i := range m.topics {
		if m.topics[i].ID == id {
			return &m.topics[i], nil
		}
	}
	return nil, nil
}

func (m *mockTopicsRepo) GetAll(ctx context.Context) ([]models.Topic, error) {
	return m.topics, nil
}

func (m *mockTopicsRepo) Update(ctx context.Context, t *models.Topic) (bool, error) {
	return true, nil
}

func (m *mockTopicsRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

func (m *mockTopicsRepo) AddChannel(ctx context.Context, topicID, channelID int64) error {
	return nil
}

func (m *mockTopicsRepo) RemoveChannel(ctx context.Context, topicID, channelID int64) (bool, error) {
	return true, nil
}

type mockChannelsRepo struct {
	channels []models.Channel
}

func (m *mockChannelsRepo) GetOrCreateByUsername(ctx context.Context, username string) (*models.Channel, error) {
	normalized := models.NormalizeUsername(username)
	for i := range m.channels {
		if m.channels[i].Username == normalized {
			return &m.channels[i], nil
		}
	}
	ch := models.Channel{ID: int64(len(m.channels) + 1), Username: normalized}
	m.channels = append(m.channels, ch)
	return &ch, nil
}

func (m *mockChannelsRepo) GetByUsername(ctx context.Context, username string) (*models.Channel, error) {
	normalized := models.NormalizeUsername(username)
	for i := range m.channels {
		if m.channels[i].Username == normalized {
			return &m.channels[i], nil
		}
	}
	return nil, nil
}

func (m *mockChannelsRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	for i := range m.channels {
		if m.channels[i].ID == id {
			return &m.channels[i], nil
		}
	}
	return nil, nil
}

func (m *mockChannelsRepo) GetAll(ctx context.Context) ([]models.Channel, error) {
	return m.channels, nil
}

func (m *mockChannelsRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

type mockMessagesRepo struct {
	messages []models.Message
}

func (m *mockMessagesRepo) List(ctx context.Context, filterID, channelID int64, opts repository.ListOptions) ([]models.Message, error) {
	return m.messages, nil
}

func (m *mockMessagesRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	for i := range m.messages {
		if m.messages[i].ID == id {
			return &m.messages[i], nil
		}
	}
	return nil, nil
}

func (m *mockMessagesRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

type mockPostsRepo struct {
	posts []models.Post
}

func (m *mockPostsRepo) List(ctx context.Context, topicID, channelID int64, opts repository.ListOptions) ([]models.Post, error) {
	return m.posts, nil
}

func (m *mockPostsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	for i := range m.posts {
		if m.posts[i].ID == id {
			return &m.posts[i], nil
		}
	}
	return nil, nil
}

func (m *mockPostsRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

type mockStatsRepo struct {
	stats *repository.MonitorStats
}

func (m *mockStatsRepo) GetStats(ctx context.Context) (*repository.MonitorStats, error) {
	return m.stats, nil
}

type mockTelegramManager struct {
	status      telegram.Status
	pending     bool
	completeErr error
}

func (m *mockTelegramManager) GetStatus() telegram.Status {
	return m.status
}

func (m *mockTelegramManager) BeginLogin(ctx context.Context, phone string) error {
	m.pending = true
	return nil
}

func (m *mockTelegramManager) CompleteLogin(ctx context.Context, phone, code, password string) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	if !m.pending {
		return telegram.ErrNoPendingLogin
	}
	m.pending = false
	return nil
}

func (m *mockTelegramManager) CancelLogin(phone string) {
	m.pending = false
}

func (m *mockTelegramManager) HasPendingLogin(phone string) bool {
	return m.pending
}

type mockListener struct{}

func (m *mockListener) Backfill(ctx context.Context, channelID int64, limit int) (*listener.BackfillResult, error) {
	return &listener.BackfillResult{}, nil
}

func newTestServer(deps *Dependencies) *Server {
	cfg := &Config{
		Port:        8080,
		Title:       "Test API",
		Description: "Test",
		Version:     "1.0.0",
	}

	if deps.TokensRepo == nil {
		deps.TokensRepo = &mockTokensRepo{}
	}
	if deps.FiltersRepo == nil {
		deps.FiltersRepo = &mockFiltersRepo{}
	}
	if deps.TopicsRepo == nil {
		deps.TopicsRepo = &mockTopicsRepo{}
	}
	if deps.ChannelsRepo == nil {
		deps.ChannelsRepo = &mockChannelsRepo{}
	}
	if deps.MessagesRepo == nil {
		deps.MessagesRepo = &mockMessagesRepo{}
	}
	if deps.PostsRepo == nil {
		deps.PostsRepo = &mockPostsRepo{}
	}
	if deps.StatsRepo == nil {
		deps.StatsRepo = &mockStatsRepo{stats: &repository.MonitorStats{}}
	}
	if deps.Telegram == nil {
		deps.Telegram = &mockTelegramManager{status: telegram.StatusReady}
	}
	if deps.Listener == nil {
		deps.Listener = &mockListener{}
	}
	if deps.PageDefaultLimit == 0 {
		deps.PageDefaultLimit = 50
	}
	if deps.PageMaxLimit == 0 {
		deps.PageMaxLimit = 200
	}

	return NewServer(cfg, deps)
}

func authRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("X-API-Key", testToken)
	return req
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(&Dependencies{})
	if srv == nil {
		t.Fatal("expected server to be created")
	}
	if srv.fuego == nil {
		t.Fatal("expected fuego server to be initialized")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp.Status)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	srv := newTestServer(&Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/filters/", nil)
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	srv := newTestServer(&Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/filters/", nil)
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddleware_QueryParamToken(t *testing.T) {
	srv := newTestServer(&Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/filters/?token="+testToken, nil)
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthStatusEndpoint(t *testing.T) {
	srv := newTestServer(&Dependencies{
		Telegram: &mockTelegramManager{status: telegram.StatusUnauthorized},
	})

	// Auth endpoints are reachable without a token
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", nil)
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthStatusResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != string(telegram.StatusUnauthorized) {
		t.Errorf("expected status UNAUTHORIZED, got '%s'", resp.Status)
	}
	if resp.IsReady {
		t.Error("expected IsReady to be false")
	}
}

func TestVerifyLoginIssuesToken(t *testing.T) {
	tg := &mockTelegramManager{status: telegram.StatusUnauthorized, pending: true}
	srv := newTestServer(&Dependencies{Telegram: tg})

	body, _ := json.Marshal(AuthVerifyBody{Phone: "+15551234567", Code: "12345"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthVerifyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Token != testToken {
		t.Errorf("expected issued token, got '%s'", resp.Token)
	}
}

func TestVerifyLoginWithoutPending(t *testing.T) {
	srv := newTestServer(&Dependencies{
		Telegram: &mockTelegramManager{status: telegram.StatusUnauthorized},
	})

	body, _ := json.Marshal(AuthVerifyBody{Phone: "+15551234567", Code: "12345"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVerifyLoginWhileAuthorized(t *testing.T) {
	srv := newTestServer(&Dependencies{
		Telegram: &mockTelegramManager{status: telegram.StatusReady, completeErr: telegram.ErrAlreadyAuthorized},
	})

	body, _ := json.Marshal(AuthVerifyBody{Phone: "+15551234567", Code: "12345"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCancelLoginWithoutPending(t *testing.T) {
	srv := newTestServer(&Dependencies{
		Telegram: &mockTelegramManager{status: telegram.StatusUnauthorized},
	})

	body, _ := json.Marshal(AuthRequestBody{Phone: "+15551234567"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/cancel", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListFiltersEndpoint(t *testing.T) {
	srv := newTestServer(&Dependencies{
		FiltersRepo: &mockFiltersRepo{
			filters: []models.Filter{
				{ID: 1, Name: "golang", Pattern: `(?i)\bgolang\b`, IncludeSources: []string{}, ExcludeSources: []string{}},
			},
		},
	})

	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodGet, "/api/v1/filters/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp FiltersListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
	if len(resp.Filters) != 1 || resp.Filters[0].Name != "golang" {
		t.Errorf("unexpected filters payload: %+v", resp.Filters)
	}
}

func TestListFiltersPagination(t *testing.T) {
	srv := newTestServer(&Dependencies{
		FiltersRepo: &mockFiltersRepo{
			filters: []models.Filter{
				{ID: 1, Name: "golang", IncludeSources: []string{}, ExcludeSources: []string{}},
				{ID: 2, Name: "rust", IncludeSources: []string{}, ExcludeSources: []string{}},
				{ID: 3, Name: "python", IncludeSources: []string{}, ExcludeSources: []string{}},
			},
		},
	})

	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodGet, "/api/v1/filters/?skip=1&limit=1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp FiltersListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Total != 3 {
		t.Errorf("expected total 3, got %d", resp.Total)
	}
	if len(resp.Filters) != 1 || resp.Filters[0].Name != "rust" {
		t.Errorf("expected second filter only, got %+v", resp.Filters)
	}
}

func TestRemoveFilterSources(t *testing.T) {
	srv := newTestServer(&Dependencies{
		FiltersRepo: &mockFiltersRepo{
			filters: []models.Filter{
				{
					ID:             1,
					Name:           "golang",
					IncludeSources: []string{"durov", "technews", "godigest"},
					ExcludeSources: []string{"spamchan"},
				},
			},
		},
	})

	body, _ := json.Marshal(FilterSourcesRequest{IncludeSources: []string{"@technews"}})
	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodDelete, "/api/v1/filters/1/sources", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp FilterResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.IncludeSources) != 2 {
		t.Fatalf("expected 2 include sources, got %v", resp.IncludeSources)
	}
	for _, src := range resp.IncludeSources {
		if src == "technews" {
			t.Errorf("technews should have been removed: %v", resp.IncludeSources)
		}
	}
	if len(resp.ExcludeSources) != 1 {
		t.Errorf("exclude sources must be untouched, got %v", resp.ExcludeSources)
	}
}

func TestRemoveFilterSourcesNotFound(t *testing.T) {
	srv := newTestServer(&Dependencies{FiltersRepo: &mockFiltersRepo{}})

	body, _ := json.Marshal(FilterSourcesRequest{IncludeSources: []string{"durov"}})
	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodDelete, "/api/v1/filters/42/sources", body))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRevokeTokenEndpoint(t *testing.T) {
	tokens := &mockTokensRepo{}
	srv := newTestServer(&Dependencies{TokensRepo: tokens})

	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodDelete, "/api/v1/tokens/1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != 1 {
		t.Errorf("expected token 1 revoked, got %v", tokens.revoked)
	}
}

func TestRevokeTokenNotFound(t *testing.T) {
	srv := newTestServer(&Dependencies{TokensRepo: &mockTokensRepo{}})

	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodDelete, "/api/v1/tokens/99", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRevokeTokenRequiresAuth(t *testing.T) {
	srv := newTestServer(&Dependencies{TokensRepo: &mockTokensRepo{}})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tokens/1", nil)
	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateFilterInvalidPattern(t *testing.T) {
	srv := newTestServer(&Dependencies{})

	body, _ := json.Marshal(FilterCreateRequest{Name: "broken", Pattern: "[unclosed"})
	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodPost, "/api/v1/filters/", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateTopicLinksChannels(t *testing.T) {
	channels := &mockChannelsRepo{}
	srv := newTestServer(&Dependencies{ChannelsRepo: channels})

	body, _ := json.Marshal(TopicCreateRequest{
		Name:        "ai-news",
		Description: "AI product launches",
		Channels:    []string{"@durov", "technews"},
	})
	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodPost, "/api/v1/topics/", body))

	if w.Code != http.StatusOK && w.Code != http.StatusCreated {
		t.Fatalf("expected success, got %d: %s", w.Code, w.Body.String())
	}

	var resp TopicResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Channels) != 2 {
		t.Errorf("expected 2 linked channels, got %d", len(resp.Channels))
	}
	if len(channels.channels) != 2 {
		t.Errorf("expected 2 registered channels, got %d", len(channels.channels))
	}
}

func TestGetChannelNotFound(t *testing.T) {
	srv := newTestServer(&Dependencies{})

	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodGet, "/api/v1/channels/42", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListMessagesEndpoint(t *testing.T) {
	srv := newTestServer(&Dependencies{
		MessagesRepo: &mockMessagesRepo{
			messages: []models.Message{
				{ID: uuid.New(), ChannelID: 1, FilterID: 1, TGMessageID: 100, Text: "release announcement"},
			},
		},
	})

	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodGet, "/api/v1/messages/?limit=10", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp MessagesListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(resp.Messages))
	}
	if resp.Limit != 10 {
		t.Errorf("expected limit 10, got %d", resp.Limit)
	}
}

func TestGetMessageInvalidID(t *testing.T) {
	srv := newTestServer(&Dependencies{})

	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodGet, "/api/v1/messages/not-a-uuid", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(&Dependencies{
		StatsRepo: &mockStatsRepo{
			stats: &repository.MonitorStats{
				TotalMessages: 120,
				TodayMessages: 4,
				TotalPosts:    30,
				TodayPosts:    2,
				Filters:       3,
				Topics:        2,
				Channels:      5,
			},
		},
	})

	w := httptest.NewRecorder()
	srv.fuego.Mux.ServeHTTP(w, authRequest(http.MethodGet, "/api/v1/stats", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.TotalMessages != 120 {
		t.Errorf("expected TotalMessages 120, got %d", resp.TotalMessages)
	}
	if resp.Channels != 5 {
		t.Errorf("expected Channels 5, got %d", resp.Channels)
	}
}
