package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// AppName names the config file, env prefix and XDG directory.
const AppName = "reviewscout"

// Config is the root configuration for ReviewScout.
type Config struct {
	Target   TargetConfig   `mapstructure:"target"   yaml:"target"`
	Browser  BrowserConfig  `mapstructure:"browser"  yaml:"browser"`
	Extract  ExtractConfig  `mapstructure:"extract"  yaml:"extract"`
	Model    ModelConfig    `mapstructure:"model"    yaml:"model"`
	Classify ClassifyConfig `mapstructure:"classify" yaml:"classify"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

// TargetConfig describes the page to search and where the search box lives.
type TargetConfig struct {
	URL            string `mapstructure:"url"             yaml:"url"`
	Query          string `mapstructure:"query"           yaml:"query"`
	SearchSelector string `mapstructure:"search_selector" yaml:"search_selector"`
	// SearchURL is used in http mode; %s is replaced by the escaped query.
	SearchURL string `mapstructure:"search_url" yaml:"search_url"`
	// ResultSelector, when set, follows the first search result before extracting.
	ResultSelector string `mapstructure:"result_selector" yaml:"result_selector"`
}

// BrowserConfig controls how pages are loaded.
type BrowserConfig struct {
	Mode              string        `mapstructure:"mode"               yaml:"mode"` // browser, http
	Headless          bool          `mapstructure:"headless"           yaml:"headless"`
	Stealth           bool          `mapstructure:"stealth"            yaml:"stealth"`
	Proxy             string        `mapstructure:"proxy"              yaml:"proxy"`
	UserDataDir       string        `mapstructure:"user_data_dir"      yaml:"user_data_dir"`
	UserAgent         string        `mapstructure:"user_agent"         yaml:"user_agent"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	StableWindow      time.Duration `mapstructure:"stable_window"      yaml:"stable_window"`
	MaxBodySize       int64         `mapstructure:"max_body_size"      yaml:"max_body_size"`
}

// SelectorRule locates nodes on a page.
type SelectorRule struct {
	Selector string `mapstructure:"selector" yaml:"selector"`
	Type     string `mapstructure:"type"     yaml:"type"` // css, xpath, jsonld
}

// ExtractConfig controls review extraction and the scroll-and-settle wait.
type ExtractConfig struct {
	Review       SelectorRule  `mapstructure:"review"        yaml:"review"`
	MaxScrolls   int           `mapstructure:"max_scrolls"   yaml:"max_scrolls"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	StableRounds int           `mapstructure:"stable_rounds" yaml:"stable_rounds"`
	Timeout      time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	MinLength    int           `mapstructure:"min_length"    yaml:"min_length"`
}

// ModelConfig selects and locates the sentiment model.
type ModelConfig struct {
	Backend      string `mapstructure:"backend"       yaml:"backend"` // onnx, vader
	Path         string `mapstructure:"path"          yaml:"path"`
	Name         string `mapstructure:"name"          yaml:"name"`
	OnnxFilename string `mapstructure:"onnx_filename" yaml:"onnx_filename"`
	AutoDownload bool   `mapstructure:"auto_download" yaml:"auto_download"`
}

// ClassifyConfig controls routing.
type ClassifyConfig struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
}

// OutputConfig names the files results are written to.
type OutputConfig struct {
	Dir                  string `mapstructure:"dir"                    yaml:"dir"`
	SocialMediaFile      string `mapstructure:"social_media_file"      yaml:"social_media_file"`
	AdvertisementFile    string `mapstructure:"advertisement_file"     yaml:"advertisement_file"`
	BadAdvertisementFile string `mapstructure:"bad_advertisement_file" yaml:"bad_advertisement_file"`
	Report               string `mapstructure:"report"                 yaml:"report"`
}

// StorageConfig controls optional result sinks.
type StorageConfig struct {
	Mongo MongoConfig `mapstructure:"mongo" yaml:"mongo"`
}

// MongoConfig configures the MongoDB sink for scored reviews.
type MongoConfig struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text, json, pretty
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config whose values reproduce the fixed behaviour
// of a plain run: Amazon, "computer charger", review-body spans.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			URL:            "https://www.amazon.com",
			Query:          "computer charger",
			SearchSelector: "#twotabsearchtextbox",
			SearchURL:      "https://www.amazon.com/s?k=%s",
		},
		Browser: BrowserConfig{
			Mode:              "browser",
			Headless:          true,
			Stealth:           true,
			NavigationTimeout: 30 * time.Second,
			StableWindow:      500 * time.Millisecond,
			MaxBodySize:       10 * 1024 * 1024, // 10MB
			UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Extract: ExtractConfig{
			Review: SelectorRule{
				Selector: `span[data-hook="review-body"]`,
				Type:     "css",
			},
			MaxScrolls:   5,
			PollInterval: 500 * time.Millisecond,
			StableRounds: 3,
			Timeout:      30 * time.Second,
			MinLength:    1,
		},
		Model: ModelConfig{
			Backend:      "onnx",
			Path:         "./models/sentiment",
			Name:         "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english",
			OnnxFilename: "model.onnx",
		},
		Output: OutputConfig{
			Dir:                  ".",
			SocialMediaFile:      "socialmediaposts.txt",
			AdvertisementFile:    "advertisement.txt",
			BadAdvertisementFile: "bad_advertisements.txt",
		},
		Storage: StorageConfig{
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "reviewscout",
				Collection: "reviews",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
