package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the realtime gateway limits. Both can be overridden via
// MAX_CONNECTIONS_PER_USER and MAX_MESSAGE_SIZE.
const (
	DefaultMaxConnectionsPerUser = 5
	DefaultMaxMessageSize        = 8 * 1024
)

// Config holds all application configuration.
type Config struct {
	ServerPort    int
	DatabaseURL   string
	SessionSecret string

	MaxConnectionsPerUser int
	MaxMessageSize        int64

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	maxConns, err := intEnv("MAX_CONNECTIONS_PER_USER", DefaultMaxConnectionsPerUser)
	if err != nil {
		return nil, err
	}
	if maxConns <= 0 {
		return nil, fmt.Errorf("MAX_CONNECTIONS_PER_USER must be positive, got %d", maxConns)
	}

	maxMsg, err := intEnv("MAX_MESSAGE_SIZE", DefaultMaxMessageSize)
	if err != nil {
		return nil, err
	}
	if maxMsg <= 0 {
		return nil, fmt.Errorf("MAX_MESSAGE_SIZE must be positive, got %d", maxMsg)
	}

	cfg := &Config{
		ServerPort:            port,
		DatabaseURL:           dbURL,
		SessionSecret:         sessionSecret,
		MaxConnectionsPerUser: maxConns,
		MaxMessageSize:        int64(maxMsg),
		R2AccountID:           os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:         os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:          os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:       os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}
