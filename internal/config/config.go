package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the immutable process configuration. It is built once at
// startup and passed by reference; a missing provider credential
// disables that provider rather than failing startup.
type Config struct {
	ListenAddr string
	DBPath     string
	LogLevel   string
	LogFile    string

	GeminiAPIKey    string
	GroqAPIKey      string
	MistralAPIKey   string
	AnthropicAPIKey string

	GroqBaseURL    string
	MistralBaseURL string

	GeminiVisionModel  string
	GeminiTextModel    string
	GroqVisionModel    string
	GroqTextModel      string
	MistralVisionModel string
	MistralTextModel   string
	ClaudeModel        string

	// Failover priority, highest first. Entries name providers:
	// gemini, mistral, groq, claude.
	VisionProviders []string
	TextProviders   []string

	ProviderTimeout time.Duration
	FailoverBackoff time.Duration
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "/data/biosync.db"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", ""),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		MistralAPIKey:   getEnv("MISTRAL_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		GroqBaseURL:    getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		MistralBaseURL: getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),

		GeminiVisionModel:  getEnv("GEMINI_VISION_MODEL", "gemini-1.5-flash"),
		GeminiTextModel:    getEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash-lite"),
		GroqVisionModel:    getEnv("GROQ_VISION_MODEL", "llama-3.2-11b-vision-preview"),
		GroqTextModel:      getEnv("GROQ_TEXT_MODEL", "llama3-8b-8192"),
		MistralVisionModel: getEnv("MISTRAL_VISION_MODEL", "pixtral-12b-2409"),
		MistralTextModel:   getEnv("MISTRAL_TEXT_MODEL", "open-mistral-nemo"),
		ClaudeModel:        getEnv("CLAUDE_MODEL", "claude-3-5-haiku-latest"),

		VisionProviders: splitList(getEnv("VISION_PROVIDERS", "gemini,mistral,groq,claude")),
		TextProviders:   splitList(getEnv("TEXT_PROVIDERS", "gemini,groq,mistral,claude")),

		ProviderTimeout: getDuration("PROVIDER_TIMEOUT_SECONDS", 60) * time.Second,
		FailoverBackoff: getDuration("FAILOVER_BACKOFF_MS", 500) * time.Millisecond,
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal int) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defaultVal)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
