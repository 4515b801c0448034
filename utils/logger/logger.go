// ABOUTME: This file provides the shared structured JSON logger for the service
// ABOUTME: Level and service name come from the environment, defaults suit production
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide logger, initialized by Init.
var Logger *slog.Logger

// Config represents the logger configuration.
type Config struct {
	Level       string `env:"LOG_LEVEL" default:"info"`
	ServiceName string `env:"SERVICE_NAME" default:"ai-digest"`
}

// LoadConfigFromEnv loads logger configuration from environment variables.
func LoadConfigFromEnv() *Config {
	return &Config{
		Level:       getEnvOrDefault("LOG_LEVEL", "info"),
		ServiceName: getEnvOrDefault("SERVICE_NAME", "ai-digest"),
	}
}

// Init builds the global logger and returns it.
func Init() *slog.Logger {
	cfg := LoadConfigFromEnv()
	Logger = New(os.Stdout, cfg)
	return Logger
}

// New creates a JSON slog logger writing to output.
func New(output io.Writer, cfg *Config) *slog.Logger {
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})
	return slog.New(handler).With("service", cfg.ServiceName)
}

func parseLevel(level string) slog.Level {
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

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
