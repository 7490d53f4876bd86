package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/replydesk/replydesk/internal/comment"
)

// Config is the full service configuration: a YAML file with environment
// overrides layered on top.
type Config struct {
	HTTPAddr            string `yaml:"http_addr"`
	SnapshotPath        string `yaml:"snapshot_path"`
	DatabaseURL         string `yaml:"database_url"`
	DemoMode            bool   `yaml:"demo_mode"`
	MaxConcurrentDrafts int    `yaml:"max_concurrent_drafts"`

	YouTube struct {
		APIKey     string `yaml:"api_key"`
		MaxResults int    `yaml:"max_results"`
	} `yaml:"youtube"`

	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	// Defaults seed the session settings when no persisted snapshot exists.
	Defaults comment.AppSettings `yaml:"defaults"`
}

// Load reads the optional YAML file at path and applies REPLYDESK_*
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		HTTPAddr:            ":8080",
		SnapshotPath:        "data/session.json",
		MaxConcurrentDrafts: 4,
	}
	cfg.YouTube.MaxResults = 20
	cfg.Gemini.Model = "gemini-2.5-flash"

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	loader := NewLoader("REPLYDESK")
	cfg.HTTPAddr = loader.String("HTTP_ADDR", cfg.HTTPAddr)
	cfg.SnapshotPath = loader.String("SNAPSHOT_PATH", cfg.SnapshotPath)
	cfg.DatabaseURL = loader.String("DATABASE_URL", cfg.DatabaseURL)
	cfg.DemoMode = loader.Bool("DEMO_MODE", cfg.DemoMode)
	cfg.MaxConcurrentDrafts = loader.Int("MAX_CONCURRENT_DRAFTS", cfg.MaxConcurrentDrafts)
	cfg.YouTube.APIKey = loader.String("YOUTUBE_API_KEY", cfg.YouTube.APIKey)
	cfg.YouTube.MaxResults = loader.Int("YOUTUBE_MAX_RESULTS", cfg.YouTube.MaxResults)
	cfg.Gemini.APIKey = loader.String("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = loader.String("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Defaults.AutoPilot = loader.Bool("AUTO_PILOT", cfg.Defaults.AutoPilot)
	cfg.Defaults.SheetID = loader.String("SHEET_ID", cfg.Defaults.SheetID)
	cfg.Defaults.ChannelID = loader.String("CHANNEL_ID", cfg.Defaults.ChannelID)

	return cfg, nil
}

// Loader provides convenient helpers for reading configuration values
// scoped by a common environment variable prefix.
type Loader struct {
	Prefix string
}

// NewLoader constructs a loader with the provided prefix. The prefix is
// automatically suffixed with an underscore when reading variables.
func NewLoader(prefix string) Loader {
	if prefix != "" && !hasTrailingUnderscore(prefix) {
		prefix += "_"
	}
	return Loader{Prefix: prefix}
}

func hasTrailingUnderscore(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '_'
}

// String returns the environment variable value or the provided default.
func (l Loader) String(key, def string) string {
	if val := os.Getenv(l.Prefix + key); val != "" {
		return val
	}
	return def
}

// Int returns an integer environment variable or the provided default.
func (l Loader) Int(key string, def int) int {
	if val := os.Getenv(l.Prefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

// Duration returns a duration environment variable (in seconds) or the default.
func (l Loader) Duration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(l.Prefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return time.Duration(parsed * float64(time.Second))
		}
	}
	return def
}

// Bool returns a boolean environment variable or the default.
func (l Loader) Bool(key string, def bool) bool {
	if val := os.Getenv(l.Prefix + key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return def
}
