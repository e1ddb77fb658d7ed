package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Credential store — empty DATABASE_URL selects the in-memory store
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Login-event queue — empty REDIS_URL stamps logins in-process
	RedisURL       string `mapstructure:"REDIS_URL"`
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
}

const devSecret = "dev-secret"

// Load reads configuration from environment variables (and optional .env file).
// The signing key default exists only for development; production refuses to
// start without an explicit JWT_SECRET.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 2)
	viper.SetDefault("JWT_SECRET", devSecret)
	viper.SetDefault("JWT_EXPIRATION_HOURS", 24)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if cfg.Env == "production" && (cfg.JWTSecret == "" || cfg.JWTSecret == devSecret) {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	return cfg, nil
}
