// Package config loads runtime settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration.
type Config struct {
	Env      string
	HTTPAddr string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	PseudonymSalt string

	TelegramBotToken string
	TrackRateLimit   int
}

// Load reads .env (if any) and the environment. JWT_SECRET is required.
func Load() (*Config, error) {
	cfg := read()
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.PseudonymSalt == "" {
		cfg.PseudonymSalt = cfg.JWTSecret
	}
	return cfg, nil
}

// LoadDatabase is Load for operator tooling that never signs tokens.
func LoadDatabase() *Config {
	return read()
}

func read() *Config {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "production"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		PseudonymSalt:    getEnv("PSEUDONYM_SALT", ""),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TrackRateLimit:   getEnvInt("TRACK_RATE_LIMIT", DefaultTrackRateLimit),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "user"),
			getEnv("DB_PASSWORD", "password"),
			getEnv("DB_NAME", "etherealdb"),
			getEnv("DB_PORT", "5432"),
		)
	}
	return cfg
}

// Development reports whether APP_ENV selects the development profile.
func (c *Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
