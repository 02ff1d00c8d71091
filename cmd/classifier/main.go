package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/robertpustota/telegram-ai-monitor/internal/classifier"
	"github.com/robertpustota/telegram-ai-monitor/internal/config"
	"github.com/robertpustota/telegram-ai-monitor/internal/database"
	"github.com/robertpustota/telegram-ai-monitor/internal/llm"
	"github.com/robertpustota/telegram-ai-monitor/internal/logger"
	"github.com/robertpustota/telegram-ai-monitor/internal/nats"
	"github.com/robertpustota/telegram-ai-monitor/internal/publisher"
	"github.com/robertpustota/telegram-ai-monitor/internal/repository"
)

func main() {
	_ = godotenv.Load()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Setup logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Msg("starting classifier service")

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

	// 4. Database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to database")

	// 5. NATS
	natsClient, err := nats.New(ctx, cfg.NatsURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to nats")
	}
	defer natsClient.Close()
	log.Info().Msg("connected to nats")

	if err := natsClient.EnsureStream(ctx, nats.StreamMessages, []string{"messages.>"}); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure stream")
	}

	// 6. LLM client
	llmClient := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		APIKey:      cfg.LLMAPIKey,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: float32(cfg.LLMTemperature),
		Timeout:     time.Duration(cfg.LLMTimeoutSec) * time.Second,
	})
	log.Info().Str("model", cfg.LLMModel).Msg("llm client initialized")

	// 7. Repositories and publisher
	filtersRepo := repository.NewFiltersRepository(db.Pool)
	topicsRepo := repository.NewTopicsRepository(db.Pool)
	messagesRepo := repository.NewMessagesRepository(db.Pool)
	postsRepo := repository.NewPostsRepository(db.Pool)
	pub := publisher.NewNATSPublisher(natsClient)

	zlog := &log.Logger

	// 8. Engine and consumer
	engine := classifier.NewEngine(llmClient, filtersRepo, topicsRepo, messagesRepo, postsRepo, pub, zlog)
	engine.SetPrompts(loadPromptFile(log, cfg.FilterPromptFile), loadPromptFile(log, cfg.TopicPromptFile))
	consumer := classifier.NewConsumer(natsClient, engine, zlog)

	if err := consumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start consumer")
	}
	log.Info().Msg("consumer started")

	// Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down")

	time.Sleep(1 * time.Second)
	log.Info().Msg("shutdown complete")
}

// loadPromptFile reads a prompt override file. Returns nil when the path
// is empty or the file cannot be loaded, keeping the built-in prompt.
func loadPromptFile(log *logger.Logger, path string) *llm.PromptConfig {
	if path == "" {
		return nil
	}
	prompt, err := llm.LoadPrompt(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to load prompt file, using built-in prompt")
		return nil
	}
	log.Info().Str("path", path).Msg("loaded prompt override")
	return prompt
}
