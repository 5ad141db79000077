package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Output.SocialMediaFile != "socialmediaposts.txt" {
		t.Errorf("unexpected social media file %q", cfg.Output.SocialMediaFile)
	}
	if cfg.Output.AdvertisementFile != "advertisement.txt" {
		t.Errorf("unexpected advertisement file %q", cfg.Output.AdvertisementFile)
	}
	if cfg.Classify.Threshold != 0 {
		t.Errorf("expected threshold 0, got %v", cfg.Classify.Threshold)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad mode", func(c *Config) { c.Browser.Mode = "curl" }, "browser.mode"},
		{"empty query", func(c *Config) { c.Target.Query = "  " }, "target.query"},
		{"bad url", func(c *Config) { c.Target.URL = "ftp://example.com" }, "target.url"},
		{"http without placeholder", func(c *Config) {
			c.Browser.Mode = "http"
			c.Target.SearchURL = "https://example.com/s"
		}, "search_url"},
		{"bad selector type", func(c *Config) { c.Extract.Review.Type = "regex" }, "extract.review.type"},
		{"jsonld needs http mode", func(c *Config) { c.Extract.Review.Type = "jsonld" }, "jsonld"},
		{"zero stable rounds", func(c *Config) { c.Extract.StableRounds = 0 }, "stable_rounds"},
		{"bad backend", func(c *Config) { c.Model.Backend = "tensorflow" }, "model.backend"},
		{"duplicate files", func(c *Config) { c.Output.AdvertisementFile = c.Output.SocialMediaFile }, "both name"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad metrics port", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Port = 0
		}, "metrics.port"},
		{"mongo missing uri", func(c *Config) {
			c.Storage.Mongo.Enabled = true
			c.Storage.Mongo.URI = ""
		}, "storage.mongo"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := Validate(cfg)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error mentioning %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviewscout.yaml")
	content := `
target:
  query: "usb c cable"
extract:
  max_scrolls: 8
  poll_interval: 250ms
model:
  backend: vader
output:
  dir: ./out
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Target.Query != "usb c cable" {
		t.Errorf("expected query override, got %q", cfg.Target.Query)
	}
	if cfg.Extract.MaxScrolls != 8 {
		t.Errorf("expected 8 scrolls, got %d", cfg.Extract.MaxScrolls)
	}
	if cfg.Extract.PollInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms poll interval, got %s", cfg.Extract.PollInterval)
	}
	if cfg.Model.Backend != "vader" {
		t.Errorf("expected vader backend, got %q", cfg.Model.Backend)
	}
	// Untouched keys keep their defaults.
	if cfg.Target.SearchSelector != "#twotabsearchtextbox" {
		t.Errorf("expected default search selector, got %q", cfg.Target.SearchSelector)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REVIEWSCOUT_TARGET_QUERY", "laptop stand")
	t.Setenv("REVIEWSCOUT_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Target.Query != "laptop stand" {
		t.Errorf("expected env query, got %q", cfg.Target.Query)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
