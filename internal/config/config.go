package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port             string
	JWTSecret        string
	RedisAddr        string
	UserServiceURL   string
	IdentityCacheTTL time.Duration
	AllowedOrigins   []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "your-secret-key"), // Default for development
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", "redis:6379"),
		UserServiceURL:   getEnvOrDefault("USER_SERVICE_URL", "http://user-service:8080"),
		IdentityCacheTTL: 30 * time.Second,
		AllowedOrigins:   splitOrigins(getEnvOrDefault("CORS_ORIGINS", "*")),
	}
	if ttl := os.Getenv("IDENTITY_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, errors.New("invalid IDENTITY_CACHE_TTL: " + ttl)
		}
		cfg.IdentityCacheTTL = d
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if cfg.UserServiceURL == "" {
		return errors.New("USER_SERVICE_URL must not be empty")
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
