package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every configurable piece of the service.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Store  StoreConfig
	Notify NotifyConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	notify, err := loadNotifyConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Store:  loadStoreConfig(),
		Notify: notify,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Mistral chat-completions endpoint. Model names and
// token caps match the product defaults; only the credential decides between
// real calls and mock content.
type AIConfig struct {
	APIKey           string
	BaseURL          string
	VisionModel      string
	ChatModel        string
	TimeoutSeconds   int
	SmartMockReplies bool
}

// Enabled reports whether a credential is configured. Absence is not an
// error: the gateway serves deterministic mock content instead.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAIConfig() (AIConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("MISTRAL_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AIConfig{}, fmt.Errorf("MISTRAL_TIMEOUT must be positive, got %d", *override)
		}
		timeoutSeconds = *override
	}

	smartMock, err := parseBoolEnv("MOCK_SMART_REPLIES", false)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:           strings.TrimSpace(os.Getenv("MISTRAL_API_KEY")),
		BaseURL:          getEnvOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1/chat/completions"),
		VisionModel:      getEnvOrDefault("MISTRAL_VISION_MODEL", "pixtral-12b-2409"),
		ChatModel:        getEnvOrDefault("MISTRAL_CHAT_MODEL", "mistral-large-latest"),
		TimeoutSeconds:   timeoutSeconds,
		SmartMockReplies: smartMock,
	}, nil
}

// StoreConfig describes where the session record is persisted. An empty path
// disables persistence entirely.
type StoreConfig struct {
	Path string
}

func loadStoreConfig() StoreConfig {
	path, ok := os.LookupEnv("SESSION_DB_PATH")
	if !ok {
		path = "data/session.db"
	}
	return StoreConfig{Path: strings.TrimSpace(path)}
}

// NotifyConfig describes notification bus behavior.
type NotifyConfig struct {
	ToastTTL time.Duration
}

func loadNotifyConfig() (NotifyConfig, error) {
	seconds := 5
	if override, err := parseOptionalIntEnv("TOAST_TTL_SECONDS"); err != nil {
		return NotifyConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return NotifyConfig{}, fmt.Errorf("TOAST_TTL_SECONDS must be positive, got %d", *override)
		}
		seconds = *override
	}

	return NotifyConfig{ToastTTL: time.Duration(seconds) * time.Second}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
