package config

import (
	"fmt"
	"net/url"
	"time"

	"farescout/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url must not be empty")
	}
	u, err := url.Parse(cfg.Search.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid search.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("search.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.Search.MaxWait <= 0 {
		return fmt.Errorf("search.max_wait must be > 0")
	}

	if cfg.Browser.PageLoadTimeout <= 0 {
		return fmt.Errorf("browser.page_load_timeout must be > 0")
	}

	validStorageTypes := map[string]bool{
		"csv": true, "json": true, "mongodb": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: csv, json, mongodb)", cfg.Storage.Type)
	}
	if cfg.Storage.Type != "mongodb" && cfg.Storage.OutputPath == "" {
		return fmt.Errorf("storage.output_path must not be empty for %s output", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongodb" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.mongo_uri must not be empty for mongodb output")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ParseDate validates and parses a YYYY-MM-DD CLI date. It fails fast,
// before any browser interaction.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(types.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", types.ErrInvalidDate, value)
	}
	return d, nil
}
