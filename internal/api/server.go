package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-fuego/fuego"
	"github.com/go-fuego/fuego/option"

	"github.com/robertpustota/telegram-ai-monitor/internal/web"
)

// Server represents the Fuego API server.
type Server struct {
	fuego *fuego.Server
	deps  *Dependencies
	port  int
}

// Dependencies contains all service dependencies.
type Dependencies struct {
	TokensRepo   TokensRepository
	FiltersRepo  FiltersRepository
	TopicsRepo   TopicsRepository
	ChannelsRepo ChannelsRepository
	MessagesRepo MessagesRepository
	PostsRepo    PostsRepository
	StatsRepo    StatsRepository
	Telegram     TelegramManager
	Listener     ListenerService
	Hub          *web.Hub

	// listing page size bounds
	PageDefaultLimit int
	PageMaxLimit     int
}

// Config holds API server configuration.
type Config struct {
	Port        int
	Title       string
	Description string
	Version     string
}

// NewServer creates a new Fuego API server.
func NewServer(cfg *Config, deps *Dependencies) *Server {
	s := fuego.NewServer(
		fuego.WithAddr(fmt.Sprintf(":%d", cfg.Port)),
		fuego.WithEngineOptions(
			fuego.WithOpenAPIConfig(fuego.OpenAPIConfig{
				PrettyFormatJSON: true,
				JSONFilePath:     "openapi.json",
				SwaggerURL:       "/docs",
				SpecURL:          "/openapi.json",
				UIHandler: func(specURL string) http.Handler {
					return ScalarHandler(specURL, cfg.Title, cfg.Description)
				},
			}),
		),
	)

	// Set OpenAPI info
	s.OpenAPI.Description().Info.Title = cfg.Title
	s.OpenAPI.Description().Info.Description = cfg.Description
	s.OpenAPI.Description().Info.Version = cfg.Version

	srv := &Server{
		fuego: s,
		deps:  deps,
		port:  cfg.Port,
	}

	// Add Chi middleware (Fuego is net/http compatible)
	fuego.Use(s, middleware.RequestID)
	fuego.Use(s, middleware.RealIP)
	fuego.Use(s, middleware.Logger)
	fuego.Use(s, middleware.Recoverer)
	fuego.Use(s, cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS", "DELETE"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
	}))
	fuego.Use(s, srv.authMiddleware)

	srv.registerRoutes()

	return srv
}

func (s *Server) registerRoutes() {
	// Health check
	fuego.Get(s.fuego, "/health", s.healthCheck,
		option.Summary("Health Check"),
		option.Description("Returns the health status of the API"),
		option.Tags("System"),
	)

	// Auth API
	authGroup := fuego.Group(s.fuego, "/api/v1/auth",
		option.Tags("Authentication"),
	)

	fuego.Get(authGroup, "/status", s.getAuthStatus,
		option.Summary("Get Auth Status"),
		option.Description("Returns Telegram authentication status"),
	)

	fuego.Post(authGroup, "/request", s.requestLoginCode,
		option.Summary("Request Login Code"),
		option.Description("Sends a Telegram verification code to the phone number"),
	)

	fuego.Post(authGroup, "/verify", s.verifyLoginCode,
		option.Summary("Verify Login Code"),
		option.Description("Completes the login with the verification code and returns an API token"),
	)

	fuego.Post(authGroup, "/cancel", s.cancelLogin,
		option.Summary("Cancel Login"),
		option.Description("Aborts a pending login flow"),
	)

	// Tokens API. Lives outside the public /api/v1/auth prefix so a
	// valid key is required to revoke another one.
	tokensGroup := fuego.Group(s.fuego, "/api/v1/tokens",
		option.Tags("Tokens"),
	)

	fuego.Delete(tokensGroup, "/{id}", s.revokeToken,
		option.Summary("Revoke Token"),
		option.Description("Deactivates an API token by ID"),
	)

	// Filters API
	filtersGroup := fuego.Group(s.fuego, "/api/v1/filters",
		option.Tags("Filters"),
	)

	fuego.Get(filtersGroup, "/", s.listFilters,
		option.Summary("List Filters"),
		option.Description("Returns stored filters, paginated"),
		option.Query("skip", "Number of items to skip (default: 0)"),
		option.Query("limit", "Page size"),
	)

	fuego.Post(filtersGroup, "/", s.createFilter,
		option.Summary("Create Filter"),
		option.Description("Creates a new filter, validating its regex pattern"),
	)

	fuego.Get(filtersGroup, "/{id}", s.getFilter,
		option.Summary("Get Filter"),
		option.Description("Returns a single filter by ID"),
	)

	fuego.Put(filtersGroup, "/{id}", s.updateFilter,
		option.Summary("Update Filter"),
		option.Description("Updates a filter's fields"),
	)

	fuego.Put(filtersGroup, "/{id}/sources", s.updateFilterSources,
		option.Summary("Update Filter Sources"),
		option.Description("Replaces a filter's include and exclude source lists"),
	)

	fuego.Delete(filtersGroup, "/{id}/sources", s.removeFilterSources,
		option.Summary("Remove Filter Sources"),
		option.Description("Removes the given usernames from a filter's source lists"),
	)

	fuego.Delete(filtersGroup, "/{id}", s.deleteFilter,
		option.Summary("Delete Filter"),
		option.Description("Deletes a filter and its retained messages"),
	)

	fuego.Get(filtersGroup, "/{id}/messages", s.listFilterMessages,
		option.Summary("List Filter Messages"),
		option.Description("Returns messages retained by one filter, newest first"),
		option.Query("skip", "Number of items to skip (default: 0)"),
		option.Query("limit", "Page size"),
		option.Query("from", "Lower date bound (RFC 3339)"),
		option.Query("to", "Upper date bound (RFC 3339)"),
		option.Query("period", "Predefined window: day, week or month"),
	)

	// Topics API
	topicsGroup := fuego.Group(s.fuego, "/api/v1/topics",
		option.Tags("Topics"),
	)

	fuego.Get(topicsGroup, "/", s.listTopics,
		option.Summary("List Topics"),
		option.Description("Returns all topics with their linked channels"),
	)

	fuego.Post(topicsGroup, "/", s.createTopic,
		option.Summary("Create Topic"),
		option.Description("Creates a new topic, optionally linking channels"),
	)

	fuego.Get(topicsGroup, "/{id}", s.getTopic,
		option.Summary("Get Topic"),
		option.Description("Returns a single topic by ID"),
	)

	fuego.Put(topicsGroup, "/{id}", s.updateTopic,
		option.Summary("Update Topic"),
		option.Description("Updates a topic's name and description"),
	)

	fuego.Delete(topicsGroup, "/{id}", s.deleteTopic,
		option.Summary("Delete Topic"),
		option.Description("Deletes a topic and its classified posts"),
	)

	fuego.Post(topicsGroup, "/{id}/channels", s.addTopicChannel,
		option.Summary("Link Channel"),
		option.Description("Links a channel to the topic, registering the channel if needed"),
	)

	fuego.Delete(topicsGroup, "/{id}/channels", s.removeTopicChannel,
		option.Summary("Unlink Channel"),
		option.Description("Unlinks a channel from the topic"),
	)

	// Channels API
	channelsGroup := fuego.Group(s.fuego, "/api/v1/channels",
		option.Tags("Channels"),
	)

	fuego.Get(channelsGroup, "/", s.listChannels,
		option.Summary("List Channels"),
		option.Description("Returns all monitored channels"),
	)

	fuego.Post(channelsGroup, "/", s.createChannel,
		option.Summary("Register Channel"),
		option.Description("Registers a channel for monitoring"),
	)

	fuego.Get(channelsGroup, "/{id}", s.getChannel,
		option.Summary("Get Channel"),
		option.Description("Returns a single channel by ID"),
	)

	fuego.Delete(channelsGroup, "/{id}", s.deleteChannel,
		option.Summary("Delete Channel"),
		option.Description("Removes a channel and its retained content"),
	)

	fuego.Post(channelsGroup, "/{id}/backfill", s.backfillChannel,
		option.Summary("Backfill Channel"),
		option.Description("Fetches recent channel history and runs it through the pipeline"),
	)

	// Messages API
	messagesGroup := fuego.Group(s.fuego, "/api/v1/messages",
		option.Tags("Messages"),
	)

	fuego.Get(messagesGroup, "/", s.listMessages,
		option.Summary("List Messages"),
		option.Description("Returns retained messages, newest first"),
		option.Query("filter_id", "Restrict to one filter"),
		option.Query("channel_id", "Restrict to one channel"),
		option.Query("skip", "Number of items to skip (default: 0)"),
		option.Query("limit", "Page size"),
		option.Query("from", "Lower date bound (RFC 3339)"),
		option.Query("to", "Upper date bound (RFC 3339)"),
		option.Query("period", "Predefined window: day, week or month"),
	)

	fuego.Get(messagesGroup, "/{id}", s.getMessage,
		option.Summary("Get Message"),
		option.Description("Returns a single retained message by ID"),
	)

	fuego.Delete(messagesGroup, "/{id}", s.deleteMessage,
		option.Summary("Delete Message"),
		option.Description("Deletes a retained message"),
	)

	// Posts API
	postsGroup := fuego.Group(s.fuego, "/api/v1/posts",
		option.Tags("Posts"),
	)

	fuego.Get(postsGroup, "/", s.listPosts,
		option.Summary("List Posts"),
		option.Description("Returns classified posts, newest first"),
		option.Query("topic_id", "Restrict to one topic"),
		option.Query("channel_id", "Restrict to one channel"),
		option.Query("skip", "Number of items to skip (default: 0)"),
		option.Query("limit", "Page size"),
		option.Query("from", "Lower date bound (RFC 3339)"),
		option.Query("to", "Upper date bound (RFC 3339)"),
		option.Query("period", "Predefined window: day, week or month"),
	)

	fuego.Get(postsGroup, "/{id}", s.getPost,
		option.Summary("Get Post"),
		option.Description("Returns a single classified post by ID"),
	)

	fuego.Delete(postsGroup, "/{id}", s.deletePost,
		option.Summary("Delete Post"),
		option.Description("Deletes a classified post"),
	)

	// Stats API
	fuego.Get(s.fuego, "/api/v1/stats", s.getStats,
		option.Summary("Get Statistics"),
		option.Description("Returns monitor statistics"),
		option.Tags("Analytics"),
	)

	// Live events over WebSocket
	fuego.GetStd(s.fuego, "/ws", func(w http.ResponseWriter, r *http.Request) {
		web.ServeWs(s.deps.Hub, w, r)
	},
		option.Summary("Live Events"),
		option.Description("Upgrades to a WebSocket pushing accepted messages and classified posts"),
		option.Tags("System"),
	)
}

// Start starts the API server.
func (s *Server) Start() error {
	return s.fuego.Run()
}

// Mux returns the underlying ServeMux for tests.
func (s *Server) Mux() *http.ServeMux {
	return s.fuego.Mux
}
