package main

import (
	"log"

	"github.com/vocapita/vocapita/internal/caption"
	"github.com/vocapita/vocapita/internal/config"
	"github.com/vocapita/vocapita/internal/logger"
	"github.com/vocapita/vocapita/internal/server"
	"github.com/vocapita/vocapita/internal/store"
	"github.com/vocapita/vocapita/internal/transcribe"
	"github.com/vocapita/vocapita/internal/workdir"
	"github.com/vocapita/vocapita/internal/workflow"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	appLogger := logger.SetupLogger(cfg)

	// Log startup information
	appLogger.Info("Starting Vocapita server",
		"env", cfg.Env,
		"port", cfg.Port,
		"caption_provider", cfg.CaptionProvider,
	)

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}

	var generator caption.Generator
	switch cfg.CaptionProvider {
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			log.Fatal("ANTHROPIC_API_KEY is required when CAPTION_PROVIDER=anthropic")
		}
		generator = caption.NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.RequestTimeout)
	default:
		generator = caption.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.RequestTimeout)
	}

	transcriber := transcribe.NewWhisperClient(cfg.OpenAIAPIKey, cfg.RequestTimeout)
	coordinator := workflow.NewCoordinator(generator, workflow.DiscardPublisher{})

	if err := workdir.Prep(); err != nil {
		log.Fatalf("Failed to prepare working directory: %v", err)
	}

	dbPath, err := workdir.DatabasePath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open recordings database: %v", err)
	}
	defer st.Close()

	srv := server.New(cfg, appLogger, st, transcriber, coordinator)
	if err := server.Run(srv); err != nil {
		appLogger.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
