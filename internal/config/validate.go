package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateURL(cfg.Target.URL); err != nil {
		return fmt.Errorf("target.url: %w", err)
	}
	if strings.TrimSpace(cfg.Target.Query) == "" {
		return fmt.Errorf("target.query must not be empty")
	}
	if cfg.Browser.Mode != "browser" && cfg.Browser.Mode != "http" {
		return fmt.Errorf("browser.mode must be 'browser' or 'http', got %q", cfg.Browser.Mode)
	}
	if cfg.Browser.Mode == "browser" && cfg.Target.SearchSelector == "" {
		return fmt.Errorf("target.search_selector is required in browser mode")
	}
	if cfg.Browser.Mode == "http" && !strings.Contains(cfg.Target.SearchURL, "%s") {
		return fmt.Errorf("target.search_url must contain %%s in http mode, got %q", cfg.Target.SearchURL)
	}
	if cfg.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be > 0")
	}
	if cfg.Browser.StableWindow <= 0 {
		return fmt.Errorf("browser.stable_window must be > 0")
	}
	if cfg.Browser.MaxBodySize <= 0 {
		return fmt.Errorf("browser.max_body_size must be > 0")
	}
	if cfg.Browser.Proxy != "" {
		if _, err := url.Parse(cfg.Browser.Proxy); err != nil {
			return fmt.Errorf("invalid proxy URL %q: %w", cfg.Browser.Proxy, err)
		}
	}

	if cfg.Extract.Review.Selector == "" {
		return fmt.Errorf("extract.review.selector must not be empty")
	}
	switch cfg.Extract.Review.Type {
	case "css", "xpath":
	case "jsonld":
		if cfg.Browser.Mode != "http" {
			return fmt.Errorf("extract.review.type 'jsonld' requires browser.mode 'http'")
		}
	default:
		return fmt.Errorf("extract.review.type must be 'css', 'xpath' or 'jsonld', got %q", cfg.Extract.Review.Type)
	}
	if cfg.Extract.MaxScrolls < 0 {
		return fmt.Errorf("extract.max_scrolls must be >= 0, got %d", cfg.Extract.MaxScrolls)
	}
	if cfg.Extract.StableRounds < 1 {
		return fmt.Errorf("extract.stable_rounds must be >= 1, got %d", cfg.Extract.StableRounds)
	}
	if cfg.Extract.PollInterval <= 0 {
		return fmt.Errorf("extract.poll_interval must be > 0")
	}
	if cfg.Extract.Timeout <= 0 {
		return fmt.Errorf("extract.timeout must be > 0")
	}

	if cfg.Model.Backend != "onnx" && cfg.Model.Backend != "vader" {
		return fmt.Errorf("model.backend must be 'onnx' or 'vader', got %q", cfg.Model.Backend)
	}
	if cfg.Model.Backend == "onnx" && cfg.Model.Path == "" {
		return fmt.Errorf("model.path is required for the onnx backend")
	}

	files := map[string]string{
		"output.social_media_file":      cfg.Output.SocialMediaFile,
		"output.advertisement_file":     cfg.Output.AdvertisementFile,
		"output.bad_advertisement_file": cfg.Output.BadAdvertisementFile,
	}
	seen := make(map[string]string, len(files))
	for key, name := range files {
		if name == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		if other, dup := seen[name]; dup {
			return fmt.Errorf("%s and %s both name %q", key, other, name)
		}
		seen[name] = key
	}

	if cfg.Storage.Mongo.Enabled {
		if cfg.Storage.Mongo.URI == "" || cfg.Storage.Mongo.Database == "" || cfg.Storage.Mongo.Collection == "" {
			return fmt.Errorf("storage.mongo requires uri, database and collection when enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true, "pretty": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be text/json/pretty, got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is valid for browsing.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
