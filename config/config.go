// ABOUTME: This file implements configuration management with environment variable support
// ABOUTME: Provides validation and defaults for the digest service
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Scrape   ScrapeConfig   `json:"scrape"`
	Digest   DigestConfig   `json:"digest"`
	Retry    RetryConfig    `json:"retry"`
}

type DatabaseConfig struct {
	Host     string `json:"host" env:"DB_HOST" default:"localhost"`
	Port     int    `json:"port" env:"DB_PORT" default:"5432"`
	User     string `json:"user" env:"DB_USER" default:"digest"`
	Password string `json:"password" env:"DB_PASSWORD"`
	Name     string `json:"name" env:"DB_NAME" default:"ai_digest"`
	SSLMode  string `json:"ssl_mode" env:"DB_SSL_MODE" default:"prefer"`
	MaxConns int    `json:"max_conns" env:"DB_MAX_CONNS" default:"10"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"60s"`
}

type ScrapeConfig struct {
	Interval      time.Duration `json:"interval" env:"SCRAPE_INTERVAL" default:"1h"`
	Concurrency   int           `json:"concurrency" env:"SCRAPE_CONCURRENCY" default:"4"`
	SourceTimeout time.Duration `json:"source_timeout" env:"SCRAPE_SOURCE_TIMEOUT" default:"30s"`
	UserAgent     string        `json:"user_agent" env:"SCRAPE_USER_AGENT" default:"Mozilla/5.0 (compatible; DigestBot/1.0)"`
	RunOnStartup  bool          `json:"run_on_startup" env:"SCRAPE_RUN_ON_STARTUP" default:"true"`
}

type DigestConfig struct {
	WindowHours  int    `json:"window_hours" env:"DIGEST_WINDOW_HOURS" default:"24"`
	BlogCap      int    `json:"blog_cap" env:"DIGEST_BLOG_CAP" default:"20"`
	AudioCap     int    `json:"audio_cap" env:"DIGEST_AUDIO_CAP" default:"15"`
	VideoCap     int    `json:"video_cap" env:"DIGEST_VIDEO_CAP" default:"15"`
	KeywordsPath string `json:"keywords_path" env:"DIGEST_KEYWORDS_PATH"`
	TopicsPath   string `json:"topics_path" env:"DIGEST_TOPICS_PATH"`
	SourcesPath  string `json:"sources_path" env:"DIGEST_SOURCES_PATH"`
}

type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" env:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay     time.Duration `json:"base_delay" env:"RETRY_BASE_DELAY" default:"1s"`
	MaxDelay      time.Duration `json:"max_delay" env:"RETRY_MAX_DELAY" default:"30s"`
	BackoffFactor float64       `json:"backoff_factor" env:"RETRY_BACKOFF_FACTOR" default:"2.0"`
	JitterFactor  float64       `json:"jitter_factor" env:"RETRY_JITTER_FACTOR" default:"0.1"`
}

func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	var err error

	// Database config
	config.Database.Host = envString("DB_HOST", "localhost")
	if config.Database.Port, err = envInt("DB_PORT", 5432); err != nil {
		return err
	}
	config.Database.User = envString("DB_USER", "digest")
	config.Database.Password = os.Getenv("DB_PASSWORD")
	config.Database.Name = envString("DB_NAME", "ai_digest")
	config.Database.SSLMode = envString("DB_SSL_MODE", "prefer")
	if config.Database.MaxConns, err = envInt("DB_MAX_CONNS", 10); err != nil {
		return err
	}

	// Server config
	if config.Server.Port, err = envInt("SERVER_PORT", 8080); err != nil {
		return err
	}
	if config.Server.ShutdownTimeout, err = envDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	if config.Server.ReadTimeout, err = envDuration("SERVER_READ_TIMEOUT", 10*time.Second); err != nil {
		return err
	}
	if config.Server.WriteTimeout, err = envDuration("SERVER_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return err
	}

	// Scrape config
	if config.Scrape.Interval, err = envDuration("SCRAPE_INTERVAL", time.Hour); err != nil {
		return err
	}
	if config.Scrape.Concurrency, err = envInt("SCRAPE_CONCURRENCY", 4); err != nil {
		return err
	}
	if config.Scrape.SourceTimeout, err = envDuration("SCRAPE_SOURCE_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	config.Scrape.UserAgent = envString("SCRAPE_USER_AGENT", "Mozilla/5.0 (compatible; DigestBot/1.0)")
	if config.Scrape.RunOnStartup, err = envBool("SCRAPE_RUN_ON_STARTUP", true); err != nil {
		return err
	}

	// Digest config
	if config.Digest.WindowHours, err = envInt("DIGEST_WINDOW_HOURS", 24); err != nil {
		return err
	}
	if config.Digest.BlogCap, err = envInt("DIGEST_BLOG_CAP", 20); err != nil {
		return err
	}
	if config.Digest.AudioCap, err = envInt("DIGEST_AUDIO_CAP", 15); err != nil {
		return err
	}
	if config.Digest.VideoCap, err = envInt("DIGEST_VIDEO_CAP", 15); err != nil {
		return err
	}
	config.Digest.KeywordsPath = os.Getenv("DIGEST_KEYWORDS_PATH")
	config.Digest.TopicsPath = os.Getenv("DIGEST_TOPICS_PATH")
	config.Digest.SourcesPath = os.Getenv("DIGEST_SOURCES_PATH")

	// Retry config
	if config.Retry.MaxAttempts, err = envInt("RETRY_MAX_ATTEMPTS", 3); err != nil {
		return err
	}
	if config.Retry.BaseDelay, err = envDuration("RETRY_BASE_DELAY", 1*time.Second); err != nil {
		return err
	}
	if config.Retry.MaxDelay, err = envDuration("RETRY_MAX_DELAY", 30*time.Second); err != nil {
		return err
	}
	if config.Retry.BackoffFactor, err = envFloat("RETRY_BACKOFF_FACTOR", 2.0); err != nil {
		return err
	}
	if config.Retry.JitterFactor, err = envFloat("RETRY_JITTER_FACTOR", 0.1); err != nil {
		return err
	}

	return nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func envBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}

	if config.Database.Port <= 0 || config.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", config.Database.Port)
	}

	if config.Database.MaxConns <= 0 {
		return fmt.Errorf("database max conns must be positive: %d", config.Database.MaxConns)
	}

	if config.Scrape.Interval <= 0 {
		return fmt.Errorf("scrape interval must be positive: %v", config.Scrape.Interval)
	}

	if config.Scrape.Concurrency <= 0 {
		return fmt.Errorf("scrape concurrency must be positive: %d", config.Scrape.Concurrency)
	}

	if config.Scrape.SourceTimeout <= 0 {
		return fmt.Errorf("scrape source timeout must be positive: %v", config.Scrape.SourceTimeout)
	}

	if config.Digest.WindowHours <= 0 {
		return fmt.Errorf("digest window hours must be positive: %d", config.Digest.WindowHours)
	}

	if config.Digest.BlogCap <= 0 || config.Digest.AudioCap <= 0 || config.Digest.VideoCap <= 0 {
		return fmt.Errorf("digest bucket caps must be positive: blog=%d audio=%d video=%d",
			config.Digest.BlogCap, config.Digest.AudioCap, config.Digest.VideoCap)
	}

	if config.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max attempts must be positive: %d", config.Retry.MaxAttempts)
	}

	if config.Retry.BackoffFactor <= 1.0 {
		return fmt.Errorf("backoff factor must be greater than 1.0: %f", config.Retry.BackoffFactor)
	}

	return nil
}
