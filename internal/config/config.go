package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	LogLevel    string

	ShutdownTimeout time.Duration

	Token TokenConfig
}

type TokenConfig struct {
	ValidateURL string
	Timeout     time.Duration
	CacheTTL    time.Duration
	CacheSize   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	validateTimeout, err := getDuration("TOKEN_VALIDATE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getDuration("TOKEN_CACHE_TTL", 0)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cacheSize, err := strconv.Atoi(getEnv("TOKEN_CACHE_SIZE", "1024"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_CACHE_SIZE: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", ""),

		ShutdownTimeout: shutdownTimeout,

		Token: TokenConfig{
			ValidateURL: getEnv("TOKEN_VALIDATE_URL", "http://localhost:4000/token/validate"),
			Timeout:     validateTimeout,
			CacheTTL:    cacheTTL,
			CacheSize:   cacheSize,
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
