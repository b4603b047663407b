package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	SendgridAPIKey string
	EmailSender    string

	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	NatsURL string

	RateLimitWindow      time.Duration
	RateLimitMaxRequests int

	BcryptCost int
}

func Load() *Config {
	return &Config{
		Port:        envString("PORT", "3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailSender:    envString("EMAIL_SENDER", "no-reply@task-manager.local"),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisHost:     envString("REDIS_HOST", "localhost"),
		RedisPort:     envString("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		NatsURL: os.Getenv("NATS_URL"),

		RateLimitWindow:      envDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 30),

		BcryptCost: envInt("BCRYPT_COST", bcrypt.DefaultCost),
	}
}

// envString, envInt and envDuration fall back to the given default when the
// variable is unset or unparsable.
func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}
