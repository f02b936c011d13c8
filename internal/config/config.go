package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"github.com/tatianab/library-of-memories/internal/store"
)

// Store drivers.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Store        string `env:"LIBRARY_STORE" envDefault:"file"`
	SaveDir      string `env:"LIBRARY_SAVE_DIR" envDefault:".saves"`
	SQLitePath   string `env:"LIBRARY_SQLITE_PATH" envDefault:"library.db"`
	SaveKey      string `env:"LIBRARY_SAVE_KEY" envDefault:"isfjLibraryGame"`
	LogFile      string `env:"LIBRARY_LOG_FILE" envDefault:"library.log"`
	LogLevel     string `env:"LIBRARY_LOG_LEVEL" envDefault:"info"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("LIBRARY_STORE must be %q or %q, got %q", StoreFile, StoreSQLite, c.Store)
	}
	if c.SaveKey == "" {
		return fmt.Errorf("LIBRARY_SAVE_KEY must not be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LIBRARY_LOG_LEVEL: %w", err)
	}
	return nil
}

// Level is the parsed log level. Validate has already checked it.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// NarratorEnabled reports whether a Gemini key was given.
func (c *Config) NarratorEnabled() bool {
	return c.GeminiAPIKey != ""
}

// OpenStore opens the configured save store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	if c.Store == StoreSQLite {
		s, err := store.OpenSQLite(ctx, c.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := store.NewFileStore(c.SaveDir)
	if err != nil {
		return nil, err
	}
	return s, nil
}
