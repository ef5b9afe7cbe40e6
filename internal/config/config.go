package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AuthConfig holds identity-provider settings. JWKSURL and Issuer are
// normally derived from Domain; tests point them at a local server.
type AuthConfig struct {
	Domain       string
	ClientID     string
	ClientSecret string
	Audience     string
	JWKSURL      string
	Issuer       string
	TokenURL     string
}

// JWKSEndpoint returns the published signing-key endpoint for the issuer.
func (a AuthConfig) JWKSEndpoint() string {
	if a.JWKSURL != "" {
		return a.JWKSURL
	}
	return fmt.Sprintf("https://%s/.well-known/jwks.json", a.Domain)
}

// ExpectedIssuer returns the issuer claim tokens must carry.
func (a AuthConfig) ExpectedIssuer() string {
	if a.Issuer != "" {
		return a.Issuer
	}
	return fmt.Sprintf("https://%s/", a.Domain)
}

// TokenEndpoint returns the password-grant token endpoint.
func (a AuthConfig) TokenEndpoint() string {
	if a.TokenURL != "" {
		return a.TokenURL
	}
	return fmt.Sprintf("https://%s/oauth/token", a.Domain)
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	EventTopic   string

	AvatarBucket string

	Auth AuthConfig
}

// LoadConfig reads configuration from the environment. A .env file is
// loaded first if present so local development matches deployment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		EventTopic:   getEnv("EVENT_TOPIC", "course-events"),
		AvatarBucket: getEnv("AVATAR_BUCKET", "tarpaulin-avatars"),
		Auth: AuthConfig{
			Domain:       os.Getenv("AUTH_DOMAIN"),
			ClientID:     os.Getenv("AUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("AUTH_CLIENT_SECRET"),
			Audience:     os.Getenv("AUTH_AUDIENCE"),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.Domain == "" || cfg.Auth.ClientID == "" {
		return nil, fmt.Errorf("AUTH_DOMAIN and AUTH_CLIENT_ID are required")
	}
	// Token audience defaults to the OAuth client id, matching how the
	// provider issues id tokens.
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = cfg.Auth.ClientID
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
