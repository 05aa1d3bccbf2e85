package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for farescout.
type Config struct {
	Search  SearchConfig  `mapstructure:"search"  yaml:"search"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SearchConfig controls the search session against the listing site.
type SearchConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// MaxWait is the overall bound for dynamic waits; individual stage
	// budgets are fractions of it.
	MaxWait time.Duration `mapstructure:"max_wait" yaml:"max_wait"`
}

// BrowserConfig controls the Chromium session.
type BrowserConfig struct {
	Headless        bool          `mapstructure:"headless"          yaml:"headless"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"`
	WindowSize      string        `mapstructure:"window_size"       yaml:"window_size"`
	Language        string        `mapstructure:"language"          yaml:"language"`
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout" yaml:"page_load_timeout"`
	UserDataDir     string        `mapstructure:"user_data_dir"     yaml:"user_data_dir"`
}

// StorageConfig controls output persistence.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"`
	OutputPath      string `mapstructure:"output_path"      yaml:"output_path"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			BaseURL: "https://www.enuygun.com/ucak-bileti/",
			MaxWait: 45 * time.Second,
		},
		Browser: BrowserConfig{
			Headless:        false,
			Stealth:         false,
			WindowSize:      "1600,1200",
			Language:        "tr-TR,tr",
			PageLoadTimeout: 60 * time.Second,
		},
		Storage: StorageConfig{
			Type:            "csv",
			OutputPath:      "flight_data.csv",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "farescout",
			MongoCollection: "offers",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
