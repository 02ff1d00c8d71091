package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/robertpustota/telegram-ai-monitor/internal/api"
	"github.com/robertpustota/telegram-ai-monitor/internal/classifier"
	"github.com/robertpustota/telegram-ai-monitor/internal/config"
	"github.com/robertpustota/telegram-ai-monitor/internal/database"
	"github.com/robertpustota/telegram-ai-monitor/internal/listener"
	"github.com/robertpustota/telegram-ai-monitor/internal/logger"
	"github.com/robertpustota/telegram-ai-monitor/internal/nats"
	"github.com/robertpustota/telegram-ai-monitor/internal/publisher"
	"github.com/robertpustota/telegram-ai-monitor/internal/repository"
	"github.com/robertpustota/telegram-ai-monitor/internal/seeder"
	"github.com/robertpustota/telegram-ai-monitor/internal/telegram"
	"github.com/robertpustota/telegram-ai-monitor/internal/web"

	"github.com/celestix/gotgproto"
)

func main() {
	_ = godotenv.Load()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Msg("starting monitor service")

	if cfg.TGApiID == 0 || cfg.TGApiHash == "" {
		log.Fatal().Msg("TG_API_ID and TG_API_HASH are required")
	}

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// 4. Connect to database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 5. Connect to NATS
	natsClient, err := nats.New(ctx, cfg.NatsURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to nats")
	}
	defer natsClient.Close()

	if err := natsClient.EnsureStream(ctx, nats.StreamMessages, []string{"messages.>"}); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure stream")
	}

	// 6. Initialize repositories
	tokensRepo := repository.NewTokensRepository(db.Pool)
	filtersRepo := repository.NewFiltersRepository(db.Pool)
	topicsRepo := repository.NewTopicsRepository(db.Pool)
	channelsRepo := repository.NewChannelsRepository(db.Pool)
	messagesRepo := repository.NewMessagesRepository(db.Pool)
	postsRepo := repository.NewPostsRepository(db.Pool)
	statsRepo := repository.NewStatsRepository(db.Pool)

	// 7. Apply seed file if configured
	if cfg.SeedFile != "" {
		seed, err := config.LoadSeed(cfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("failed to load seed file")
		}
		zlog := &log.Logger
		if err := seeder.New(channelsRepo, topicsRepo, filtersRepo, zlog).Apply(ctx, seed); err != nil {
			log.Fatal().Err(err).Msg("failed to apply seed file")
		}
	}

	// 8. WebSocket hub for live events
	hub := web.NewHub()
	go hub.Run()

	// 9. Event publisher and channel listener
	pub := publisher.NewNATSPublisher(natsClient)
	tgManager := telegram.NewManager(cfg, db.GORM)
	tgClient := telegram.NewClient(tgManager)
	listenerSvc := listener.NewService(tgClient, channelsRepo, pub)

	// 10. Restore the Telegram session; the listener attaches once a
	// client is ready, also after a login through the API.
	tgManager.SetOnReady(func(client *gotgproto.Client) {
		listenerSvc.Attach(client)
		hub.Broadcast(web.AuthStatusEvent(string(telegram.StatusReady)))
	})
	if err := tgManager.Init(ctx); err != nil {
		log.Error().Err(err).Msg("telegram manager init failed")
	}
	defer tgManager.Stop()

	// 11. Forward pipeline results to WebSocket clients
	if err := subscribeLiveEvents(ctx, natsClient, hub); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to pipeline events")
	}

	// 12. REST API server
	apiCfg := &api.Config{
		Port:        cfg.HTTPPort,
		Title:       "Telegram AI Monitor",
		Description: "Channel monitoring with regex and LLM powered filtering",
		Version:     "1.0.0",
	}
	server := api.NewServer(apiCfg, &api.Dependencies{
		TokensRepo:       tokensRepo,
		FiltersRepo:      filtersRepo,
		TopicsRepo:       topicsRepo,
		ChannelsRepo:     channelsRepo,
		MessagesRepo:     messagesRepo,
		PostsRepo:        postsRepo,
		StatsRepo:        statsRepo,
		Telegram:         tgManager,
		Listener:         listenerSvc,
		Hub:              hub,
		PageDefaultLimit: cfg.PageDefaultLimit,
		PageMaxLimit:     cfg.PageMaxLimit,
	})

	log.Info().Int("port", cfg.HTTPPort).Msg("starting api server")
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("api server error")
		}
	}()

	// 13. Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down")

	// let in-flight handlers and nats acks settle
	time.Sleep(1 * time.Second)
	log.Info().Msg("shutdown complete")
}

// subscribeLiveEvents forwards accepted messages and classified posts from
// the pipeline to connected WebSocket clients.
func subscribeLiveEvents(ctx context.Context, nc *nats.Client, hub *web.Hub) error {
	err := nc.Subscribe(ctx, nats.StreamMessages, "monitor-accepted", nats.SubjectAccepted, func(data []byte) error {
		var event classifier.AcceptedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil
		}
		hub.Broadcast(web.MessageAcceptedEvent(event))
		return nil
	})
	if err != nil {
		return err
	}

	return nc.Subscribe(ctx, nats.StreamMessages, "monitor-posts", nats.SubjectPostFound, func(data []byte) error {
		var event classifier.PostEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil
		}
		hub.Broadcast(web.PostClassifiedEvent(event))
		return nil
	})
}
