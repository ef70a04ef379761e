package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	LogFormat   string
	Database    DatabaseConfig
	RateLimit   RateLimitConfig
}

// RateLimitConfig holds the local server rate limiter settings
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from the environment, materializing a local .env
// file first if one exists.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return fromEnvironment(), nil
}

// LoadFrom loads configuration after reading the given env files. Unlike Load,
// a missing file is an error.
func LoadFrom(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		return Load()
	}

	if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files %v: %w", envFiles, err)
	}

	return fromEnvironment(), nil
}

func fromEnvironment() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5)
	v.SetDefault("DB_PATH", "./data/users.db")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		Database: DatabaseConfig{
			Driver:         v.GetString("DB_DRIVER"),
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetInt("DB_PORT"),
			Name:           v.GetString("DB_NAME"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			ConnectTimeout: v.GetInt("DB_CONNECT_TIMEOUT"),
			Path:           v.GetString("DB_PATH"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if config.LogFormat == "" {
		config.LogFormat = "text"
		if IsServerlessMode() {
			config.LogFormat = "json"
		}
	}

	return config
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
