// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration for the CLI and the HTTP server.
type Config struct {
	DBPath           string
	LogUseCases      bool
	LogLevel         slog.Level
	HTTPAddress      string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	dbPath := filepath.Join(".siteplan", "siteplan.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, dbPath)
	}
	return Config{
		DBPath:           dbPath,
		LogLevel:         slog.LevelInfo,
		HTTPAddress:      ":4000",
		HTTPReadTimeout:  5 * time.Second,
		HTTPWriteTimeout: 30 * time.Second,
	}
}

// Load reads SITEPLAN_* variables over the defaults. Malformed values fall
// back to the default for that key.
func Load() Config {
	def := Default()
	return Config{
		DBPath:           getEnv("SITEPLAN_DB", def.DBPath),
		LogUseCases:      getBoolEnv("SITEPLAN_LOG_USECASES", def.LogUseCases),
		LogLevel:         getLevelEnv("SITEPLAN_LOG_LEVEL", def.LogLevel),
		HTTPAddress:      getEnv("SITEPLAN_HTTP_ADDR", def.HTTPAddress),
		HTTPReadTimeout:  getDurationEnv("SITEPLAN_HTTP_READ_TIMEOUT", def.HTTPReadTimeout),
		HTTPWriteTimeout: getDurationEnv("SITEPLAN_HTTP_WRITE_TIMEOUT", def.HTTPWriteTimeout),
	}
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getLevelEnv(key string, fallback slog.Level) slog.Level {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := ParseLevel(value); err == nil {
			return parsed
		}
	}
	return fallback
}
