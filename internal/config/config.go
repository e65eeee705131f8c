// Package config loads SkillRadar settings from YAML with environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// StorageConfig selects where the session document lives.
type StorageConfig struct {
	// Backend is "sqlite" or "file".
	Backend string `yaml:"backend"`
	// Path is the SQLite database or the JSON file.
	Path string `yaml:"path"`
	// Key names the document inside the SQLite key/value table.
	Key string `yaml:"key"`
}

// ChartConfig is the logical size used for rendered charts.
type ChartConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ShareConfig struct {
	BaseURL string `yaml:"base_url"`
}

type ExportConfig struct {
	Title     string `yaml:"title"`
	AutoPrint bool   `yaml:"auto_print"`
}

// Config is the full settings tree.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Chart    ChartConfig   `yaml:"chart"`
	Share    ShareConfig   `yaml:"share"`
	Export   ExportConfig  `yaml:"export"`
	Subject  string        `yaml:"subject"`
	LogLevel string        `yaml:"log_level"`
}

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Key:     "vevo-skill-data",
		},
		Chart:    ChartConfig{Width: 640, Height: 480},
		Share:    ShareConfig{BaseURL: "https://kittclouds.github.io/skillradar/"},
		Export:   ExportConfig{Title: "Skill overview"},
		LogLevel: "info",
	}
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := defaultConfig()
	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return cfg
}

// Load reads path if it exists. A missing file yields the defaults; a
// malformed one is an error.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read %s: %w", filepath.Base(path), err)
			}
		} else if len(data) > 0 {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if raw := os.Getenv("SKILLRADAR_STORAGE_BACKEND"); raw != "" {
		cfg.Storage.Backend = raw
	}
	if raw := os.Getenv("SKILLRADAR_STORAGE_PATH"); raw != "" {
		cfg.Storage.Path = raw
	}
	if raw := os.Getenv("SKILLRADAR_SHARE_BASE_URL"); raw != "" {
		cfg.Share.BaseURL = raw
	}
	if raw := os.Getenv("SKILLRADAR_LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	if raw := os.Getenv("SKILLRADAR_CHART_WIDTH"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Chart.Width = v
		}
	}
	if raw := os.Getenv("SKILLRADAR_CHART_HEIGHT"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Chart.Height = v
		}
	}
}

func normalize(cfg *Config) {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = "vevo-skill-data"
	}
	if cfg.Storage.Path == "" {
		if cfg.Storage.Backend == BackendFile {
			cfg.Storage.Path = "skillradar.json"
		} else {
			cfg.Storage.Path = "skillradar.db"
		}
	}
	if cfg.Chart.Width <= 0 {
		cfg.Chart.Width = 640
	}
	if cfg.Chart.Height <= 0 {
		cfg.Chart.Height = 480
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg Config) error {
	switch cfg.Storage.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (want %q or %q)", cfg.Storage.Backend, BackendSQLite, BackendFile)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level string to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Logger builds a text logger at the configured level writing to stderr.
func (c Config) Logger() *slog.Logger {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
