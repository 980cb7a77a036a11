package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the service configuration.
type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Chat      ChatConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	inference, err := loadInferenceConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Inference: inference, Chat: chat}, nil
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

// InferenceConfig describes how to reach the inference service.
type InferenceConfig struct {
	BaseURL     string
	Timeout     time.Duration
	FileBaseURL string
}

func loadInferenceConfig() (InferenceConfig, error) {
	baseURL := strings.TrimRight(getEnvOrDefault("INFERENCE_BASE_URL", "http://localhost:8000"), "/")

	timeoutSeconds := 60
	if override, err := parseOptionalIntEnv("INFERENCE_TIMEOUT_SECONDS"); err != nil {
		return InferenceConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return InferenceConfig{}, fmt.Errorf("INFERENCE_TIMEOUT_SECONDS must be positive, got %d", *override)
		}
		timeoutSeconds = *override
	}

	// Uploaded files are served by the inference service; the viewer links
	// point there unless overridden.
	fileBaseURL := getEnvOrDefault("DOC_FILE_BASE_URL", baseURL+"/api/files")

	return InferenceConfig{
		BaseURL:     baseURL,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
		FileBaseURL: fileBaseURL,
	}, nil
}

// ChatConfig describes session behavior.
type ChatConfig struct {
	SuggestionLimit int
	SessionTTL      time.Duration
}

func loadChatConfig() (ChatConfig, error) {
	limit := 3
	if override, err := parseOptionalIntEnv("SUGGESTION_LIMIT"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		if *override < 1 {
			limit = 1
		} else {
			limit = *override
		}
	}

	ttlMinutes := 30
	if override, err := parseOptionalIntEnv("SESSION_TTL_MINUTES"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ChatConfig{}, fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", *override)
		}
		ttlMinutes = *override
	}

	return ChatConfig{
		SuggestionLimit: limit,
		SessionTTL:      time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
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
