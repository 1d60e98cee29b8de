// Package config provides configuration loading for go-docent commands.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Default backend endpoints.
const (
	DefaultAPIBaseURL = "http://localhost:8000"
	DefaultLanguage   = "ko"
)

// Config holds the client configuration loaded from the environment.
type Config struct {
	// APIBaseURL is the docent backend base URL (http or https).
	APIBaseURL string

	// KakaoAPIKey is the REST key for the directions API.
	KakaoAPIKey string

	// UserID identifies the user on the backend.
	UserID string

	// Language is the docent reply language code (e.g. "ko", "en").
	Language string

	// PlayerBackend selects the audio player: auto, file, pipe or mock.
	PlayerBackend string

	// PlayerCommand is the external decoder command for file/pipe playback.
	PlayerCommand string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment. Missing optional values fall back to defaults.
func Load() (*Config, error) {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:    getEnvOrDefault("DOCENT_API_URL", DefaultAPIBaseURL),
		KakaoAPIKey:   os.Getenv("KAKAO_REST_API_KEY"),
		UserID:        os.Getenv("DOCENT_USER_ID"),
		Language:      getEnvOrDefault("DOCENT_LANGUAGE", DefaultLanguage),
		PlayerBackend: getEnvOrDefault("AUDIO_BACKEND", "auto"),
		PlayerCommand: os.Getenv("AUDIO_PLAYER_CMD"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		cfg.APIBaseURL = "http://" + cfg.APIBaseURL
	}
	cfg.APIBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/")

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.PlayerBackend {
	case "auto", "file", "pipe", "mock":
	default:
		return fmt.Errorf("AUDIO_BACKEND must be auto, file, pipe or mock, got %q", c.PlayerBackend)
	}
	return nil
}

// WSBaseURL derives the WebSocket base URL from the API base URL.
func (c *Config) WSBaseURL() string {
	url := strings.Replace(c.APIBaseURL, "https://", "wss://", 1)
	return strings.Replace(url, "http://", "ws://", 1)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
