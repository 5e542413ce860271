package config

import (
	"log/slog"
	"os"
	"strings"
)

type AppConfig struct {
	PostgresURL        string
	Port               string
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	SerperAPIKey       string
	GeminiAPIKey       string
	ProxyURLs          []string
	UseArchive         bool
	LogLevel           slog.Level
}

var Config AppConfig

// LoadConfig reads the environment. Only the database URL is hard-required;
// per-strategy credentials are optional, and a missing credential disables
// that acquisition strategy instead of crashing the process.
func LoadConfig() {
	cfg := AppConfig{}

	cfg.PostgresURL = loadRequired("POSTGRES_URL")
	cfg.Port = loadOptional("PORT", "8080")
	cfg.RedditClientID = os.Getenv("REDDIT_CLIENT_ID")
	cfg.RedditClientSecret = os.Getenv("REDDIT_CLIENT_SECRET")
	cfg.RedditUserAgent = loadOptional("REDDIT_USER_AGENT", "creator-discovery/1.0")
	cfg.SerperAPIKey = os.Getenv("SERPER_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.UseArchive = loadOptional("USE_ARCHIVE_FALLBACK", "true") == "true"

	if raw := os.Getenv("PROXY_URLS"); raw != "" {
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.ProxyURLs = append(cfg.ProxyURLs, u)
			}
		}
	}

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
