// Package config loads dashboard server configuration from an optional JSON
// file with environment-variable overrides. Fields omitted from the file
// keep their defaults, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roadwatch/trafficdash/internal/units"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultListen       = ":8000"
	DefaultDataDir      = "vehicle_data_with_helmet"
	DefaultHistoryDB    = "dashboard_history.db"
	DefaultUnits        = units.KMPH
	DefaultPollInterval = 10 * time.Second
)

// Config holds the dashboard server configuration. Pointer fields distinguish
// "not set" from a zero value so the JSON file can stay partial.
type Config struct {
	Listen       *string `json:"listen,omitempty"`
	DataDir      *string `json:"data_dir,omitempty"`
	HistoryDB    *string `json:"history_db,omitempty"`
	Units        *string `json:"units,omitempty"`
	PollInterval *string `json:"poll_interval,omitempty"` // duration string like "10s"
}

// Load reads a Config from a JSON file and applies environment overrides.
// An empty path yields a config built from defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		cleanPath := filepath.Clean(path)
		if ext := filepath.Ext(cleanPath); ext != ".json" {
			return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
		}
		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Units != nil && !units.IsValid(*cfg.Units) {
		return nil, fmt.Errorf("invalid units %q (valid: %s)", *cfg.Units, units.GetValidUnitsString())
	}
	if cfg.PollInterval != nil {
		if _, err := time.ParseDuration(*cfg.PollInterval); err != nil {
			return nil, fmt.Errorf("invalid poll_interval: %w", err)
		}
	}

	return cfg, nil
}

// applyEnv lets the environment win over the file. Variables are the ones the
// deploy scripts export; godotenv loads them from .env before this runs.
func (c *Config) applyEnv() {
	for env, field := range map[string]**string{
		"TRAFFICDASH_LISTEN":        &c.Listen,
		"TRAFFICDASH_DATA_DIR":      &c.DataDir,
		"TRAFFICDASH_HISTORY_DB":    &c.HistoryDB,
		"TRAFFICDASH_UNITS":         &c.Units,
		"TRAFFICDASH_POLL_INTERVAL": &c.PollInterval,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			value := v
			*field = &value
		}
	}
}

// GetListen returns the configured listen address or the default.
func (c *Config) GetListen() string {
	if c.Listen != nil {
		return *c.Listen
	}
	return DefaultListen
}

// GetDataDir returns the snapshot data directory or the default.
func (c *Config) GetDataDir() string {
	if c.DataDir != nil {
		return *c.DataDir
	}
	return DefaultDataDir
}

// GetHistoryDB returns the ingest-history database path or the default.
func (c *Config) GetHistoryDB() string {
	if c.HistoryDB != nil {
		return *c.HistoryDB
	}
	return DefaultHistoryDB
}

// GetUnits returns the display units or the default.
func (c *Config) GetUnits() string {
	if c.Units != nil {
		return *c.Units
	}
	return DefaultUnits
}

// GetPollInterval returns the snapshot poll cadence or the default.
func (c *Config) GetPollInterval() time.Duration {
	if c.PollInterval != nil {
		if d, err := time.ParseDuration(*c.PollInterval); err == nil {
			return d
		}
	}
	return DefaultPollInterval
}
