package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for the voice assistant backend.
type Config struct {
	Assistant AssistantConfig
	Speech    SpeechConfig
	Session   SessionConfig
	Debug     bool
}

type AssistantConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type SpeechConfig struct {
	GatewayURL string
	APIKey     string
	Language   string
}

type SessionConfig struct {
	CaptureTimeout   time.Duration
	CountdownSeconds int
	TickInterval     time.Duration
}

// Load resolves configuration from environment variables and sensible
// defaults.
func Load() (Config, error) {
	cfg := Config{
		Assistant: AssistantConfig{
			BaseURL: envOrDefault("HOMEVOICE_API_BASE", "http://localhost:3000"),
			APIKey:  strings.TrimSpace(os.Getenv("HOMEVOICE_API_KEY")),
			Timeout: time.Duration(envOrDefaultInt("HOMEVOICE_API_TIMEOUT_MS", 10000)) * time.Millisecond,
		},
		Speech: SpeechConfig{
			GatewayURL: strings.TrimSpace(os.Getenv("HOMEVOICE_STT_GATEWAY_URL")),
			APIKey:     strings.TrimSpace(os.Getenv("HOMEVOICE_STT_API_KEY")),
			Language:   envOrDefault("HOMEVOICE_LANGUAGE", "zh-CN"),
		},
		Session: SessionConfig{
			CaptureTimeout:   time.Duration(envOrDefaultInt("HOMEVOICE_CAPTURE_TIMEOUT_MS", 30000)) * time.Millisecond,
			CountdownSeconds: envOrDefaultInt("HOMEVOICE_COMMIT_DELAY_SECONDS", 5),
			TickInterval:     time.Duration(envOrDefaultInt("HOMEVOICE_COMMIT_TICK_MS", 1000)) * time.Millisecond,
		},
		Debug: envOrDefaultBool("HOMEVOICE_DEBUG", false),
	}

	if cfg.Assistant.Timeout <= 0 {
		cfg.Assistant.Timeout = 10 * time.Second
	}
	if cfg.Session.CaptureTimeout <= 0 {
		cfg.Session.CaptureTimeout = 30 * time.Second
	}
	if cfg.Session.CountdownSeconds <= 0 {
		cfg.Session.CountdownSeconds = 5
	}
	if cfg.Session.TickInterval <= 0 {
		cfg.Session.TickInterval = time.Second
	}

	return cfg, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
