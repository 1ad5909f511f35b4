package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"biosync/internal/config"
	"biosync/internal/db"
	"biosync/internal/llm"
	"biosync/internal/llm/claude"
	"biosync/internal/llm/gemini"
	"biosync/internal/llm/openaichat"
	"biosync/internal/logging"
	"biosync/internal/service"
	"biosync/internal/store"
	"biosync/internal/web"
)

func main() {
	// Credentials may live in a local .env during development; a
	// missing file is fine.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	foodStore := store.NewFoodStore(database)
	profileStore := store.NewProfileStore(database)

	visionChain := buildChain(cfg, cfg.VisionProviders, true, logger)
	textChain := buildChain(cfg, cfg.TextProviders, false, logger)

	assistantSvc := service.NewAssistantService(visionChain, textChain, logger)
	foodSvc := service.NewFoodService(foodStore, logger)
	profileSvc := service.NewProfileService(profileStore, logger)

	server := web.NewServer(assistantSvc, foodSvc, profileSvc, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// buildChain assembles a failover chain from the configured provider
// order. Providers without a credential stay in the list but are
// skipped at run time, so reordering or adding a key needs no code
// change.
func buildChain(cfg *config.Config, order []string, vision bool, logger *slog.Logger) *llm.Chain {
	adapters := make([]llm.Adapter, 0, len(order))
	for _, name := range order {
		switch name {
		case "gemini":
			model := cfg.GeminiTextModel
			if vision {
				model = cfg.GeminiVisionModel
			}
			adapters = append(adapters, gemini.New(cfg.GeminiAPIKey, model, cfg.ProviderTimeout))
		case "groq":
			model := cfg.GroqTextModel
			if vision {
				model = cfg.GroqVisionModel
			}
			adapters = append(adapters, openaichat.New("groq", cfg.GroqBaseURL, cfg.GroqAPIKey, model, vision, cfg.ProviderTimeout))
		case "mistral":
			model := cfg.MistralTextModel
			if vision {
				model = cfg.MistralVisionModel
			}
			adapters = append(adapters, openaichat.New("mistral", cfg.MistralBaseURL, cfg.MistralAPIKey, model, vision, cfg.ProviderTimeout))
		case "claude":
			adapters = append(adapters, claude.New(cfg.AnthropicAPIKey, cfg.ClaudeModel))
		default:
			logger.Warn("unknown provider in order, skipping", "provider", name)
		}
	}
	for _, a := range adapters {
		if !a.Configured() {
			logger.Info("provider disabled, no credential configured", "provider", a.Name())
		}
	}
	return llm.NewChain(adapters, cfg.FailoverBackoff, logger)
}
