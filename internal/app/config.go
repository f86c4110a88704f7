package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BootstrapToken string // Optional: token required to perform bootstrap

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./modelrunner.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	UpstreamBaseURL string // Optional: OpenAI-compatible upstream base URL
	UpstreamAPIKey  string // Optional: API key for the upstream

	// Model registries, parsed from comma-separated "name=upstream" pairs,
	// e.g. MODELRUNNER_TEXT_MODELS="tiny=gpt-3.5-turbo-instruct,big=gpt-4".
	TextModels  map[string]string
	AudioModels map[string]string
}

func LoadConfig() Config {
	return Config{
		BootstrapToken: os.Getenv(
			"BOOTSTRAP_TOKEN",
		), // Optional: if set, required to perform bootstrap
		DatabaseFile:        getEnvOrDefault("MODELRUNNER_DATABASE_FILE", "modelrunner.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		UpstreamBaseURL:     os.Getenv("MODELRUNNER_UPSTREAM_BASE_URL"),
		UpstreamAPIKey:      os.Getenv("MODELRUNNER_UPSTREAM_API_KEY"),
		TextModels:          parseModelPairs(os.Getenv("MODELRUNNER_TEXT_MODELS")),
		AudioModels:         parseModelPairs(os.Getenv("MODELRUNNER_AUDIO_MODELS")),
	}
}

// parseModelPairs splits "name=upstream,name2=upstream2" into a map. Pairs
// without an '=' or with an empty side are skipped.
func parseModelPairs(raw string) map[string]string {
	models := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, upstream, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || name == "" || upstream == "" {
			continue
		}
		models[name] = upstream
	}
	return models
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
