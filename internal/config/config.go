// Package config loads application configuration from environment variables
// and an optional .env file.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port              string
	DBPath            string
	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration

	// RedisAddr enables the event bus when non-empty. Without Redis the
	// server still recomputes balances on its own writes; it just won't see
	// writes made by other instances.
	RedisAddr     string
	RedisPassword string

	LogLevel  string
	LogFormat string
}

const defaultJWTSecret = "insecure-dev-secret-change-me"

// Load reads configuration from environment variables, with a .env file as
// fallback. Missing values fall back to development defaults with a warning.
func Load() (*Config, error) {
	// Attempt to load .env, ignore error if it doesn't exist.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_PATH", "./data/splitmate.db")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "splitmate")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.AutomaticEnv()

	cfg := &Config{
		Port:          viper.GetString("PORT"),
		DBPath:        viper.GetString("DB_PATH"),
		JWTSecret:     viper.GetString("JWT_SECRET"),
		JWTIssuer:     viper.GetString("JWT_ISSUER"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		LogFormat:     viper.GetString("LOG_FORMAT"),
	}

	if cfg.JWTSecret == defaultJWTSecret {
		slog.Warn("JWT_SECRET not set, using insecure development default")
	}

	expiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		expiry = 24 * time.Hour
		slog.Warn("Invalid JWT_EXPIRY_DURATION, using default", "value", expiryStr, "default", expiry)
	}
	cfg.JWTExpiryDuration = expiry

	return cfg, nil
}
