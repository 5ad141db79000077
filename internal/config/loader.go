package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flags are applied by the caller on top of the result.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env is fine; the process environment still applies.
	_ = gotenv.Load(".env")

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Dir returns the per-user configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ModelDir resolves the model path relative to the working directory.
func (m ModelConfig) ModelDir() string {
	if filepath.IsAbs(m.Path) {
		return m.Path
	}
	wd, err := os.Getwd()
	if err != nil {
		return m.Path
	}
	return filepath.Join(wd, m.Path)
}

// setDefaults registers default values in viper so env overrides bind to every key.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("target.url", cfg.Target.URL)
	v.SetDefault("target.query", cfg.Target.Query)
	v.SetDefault("target.search_selector", cfg.Target.SearchSelector)
	v.SetDefault("target.search_url", cfg.Target.SearchURL)
	v.SetDefault("target.result_selector", cfg.Target.ResultSelector)

	v.SetDefault("browser.mode", cfg.Browser.Mode)
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.proxy", cfg.Browser.Proxy)
	v.SetDefault("browser.user_data_dir", cfg.Browser.UserDataDir)
	v.SetDefault("browser.user_agent", cfg.Browser.UserAgent)
	v.SetDefault("browser.navigation_timeout", cfg.Browser.NavigationTimeout)
	v.SetDefault("browser.stable_window", cfg.Browser.StableWindow)
	v.SetDefault("browser.max_body_size", cfg.Browser.MaxBodySize)

	v.SetDefault("extract.review.selector", cfg.Extract.Review.Selector)
	v.SetDefault("extract.review.type", cfg.Extract.Review.Type)
	v.SetDefault("extract.max_scrolls", cfg.Extract.MaxScrolls)
	v.SetDefault("extract.poll_interval", cfg.Extract.PollInterval)
	v.SetDefault("extract.stable_rounds", cfg.Extract.StableRounds)
	v.SetDefault("extract.timeout", cfg.Extract.Timeout)
	v.SetDefault("extract.min_length", cfg.Extract.MinLength)

	v.SetDefault("model.backend", cfg.Model.Backend)
	v.SetDefault("model.path", cfg.Model.Path)
	v.SetDefault("model.name", cfg.Model.Name)
	v.SetDefault("model.onnx_filename", cfg.Model.OnnxFilename)
	v.SetDefault("model.auto_download", cfg.Model.AutoDownload)

	v.SetDefault("classify.threshold", cfg.Classify.Threshold)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.social_media_file", cfg.Output.SocialMediaFile)
	v.SetDefault("output.advertisement_file", cfg.Output.AdvertisementFile)
	v.SetDefault("output.bad_advertisement_file", cfg.Output.BadAdvertisementFile)
	v.SetDefault("output.report", cfg.Output.Report)

	v.SetDefault("storage.mongo.enabled", cfg.Storage.Mongo.Enabled)
	v.SetDefault("storage.mongo.uri", cfg.Storage.Mongo.URI)
	v.SetDefault("storage.mongo.database", cfg.Storage.Mongo.Database)
	v.SetDefault("storage.mongo.collection", cfg.Storage.Mongo.Collection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
