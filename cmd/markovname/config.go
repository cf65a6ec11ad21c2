package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/CTAG07/markovname/pkg/markov"
	"github.com/natefinch/atomic"
)

// Config holds the settings of a markovname run. Flags given on the command
// line take precedence over the values read from the config file.
type Config struct {
	DataDir        string  `json:"data_dir"`
	DatabasePath   string  `json:"database_path"`
	LogLevel       string  `json:"log_level"`
	Order          int     `json:"order"`
	Prior          float64 `json:"prior"`
	Count          int     `json:"count"`
	MaxLength      int     `json:"max_length"`
	NoveltyRetries int     `json:"novelty_retries"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DataDir:        "./data",
		DatabasePath:   "",
		LogLevel:       "info",
		Order:          3,
		Prior:          0,
		Count:          1,
		MaxLength:      markov.DefaultMaxLength,
		NoveltyRetries: 3,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values. warn receives
// the message when that file cannot be written.
func LoadConfig(path string, warn io.Writer) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Defaults are still usable.
				_, _ = fmt.Fprintf(warn, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// parseLevel maps a config log level to a slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
