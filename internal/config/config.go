package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// PathEnv names the config file when no -config flag is given.
	PathEnv = "FAKENEWS_CONFIG"

	databaseDriverEnv     = "DATABASE_DRIVER"
	databaseDSNEnv        = "DATABASE_DSN"
	classifierEndpointEnv = "CLASSIFIER_ENDPOINT"
	classifierAPIKeyEnv   = "CLASSIFIER_API_KEY"
	logLevelEnv           = "LOG_LEVEL"
	featureWorkersEnv     = "FEATURE_WORKERS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Filters    FilterConfig     `yaml:"filters"`
	Features   FeatureConfig    `yaml:"features"`
	Database   DatabaseConfig   `yaml:"database"`
	Collect    CollectConfig    `yaml:"collect"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Label      LabelConfig      `yaml:"label"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// InputConfig lists the labelled raw sources and the prepared table location.
type InputConfig struct {
	Sources  []SourceConfig `yaml:"sources"`
	Prepared string         `yaml:"prepared"`
}

// SourceConfig is one raw file; every row inherits its label.
type SourceConfig struct {
	Path   string `yaml:"path"`
	IsFake bool   `yaml:"isFake"`
}

// OutputConfig describes the exported feature table.
type OutputConfig struct {
	Features string `yaml:"features"`
	Format   string `yaml:"format"`
}

// FilterConfig holds the minimum title and body lengths in characters.
type FilterConfig struct {
	MinTitleChars int `yaml:"minTitleChars"`
	MinTextChars  int `yaml:"minTextChars"`
}

// FeatureConfig controls parallel extraction and lexicon overrides.
type FeatureConfig struct {
	Workers          int    `yaml:"workers"`
	ReservedCores    int    `yaml:"reservedCores"`
	SentimentLexicon string `yaml:"sentimentLexicon"`
	EmotionLexicon   string `yaml:"emotionLexicon"`
}

// DatabaseConfig describes the article data lake connection.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CollectConfig drives the RSS and fact-check scanners.
type CollectConfig struct {
	UserAgent       string        `yaml:"userAgent"`
	RequestInterval time.Duration `yaml:"requestInterval"`
	MinArticleChars int           `yaml:"minArticleChars"`
	Sites           []SiteConfig  `yaml:"sites"`
}

// SiteConfig describes a single site with its scanner strategy.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	Limit   int               `yaml:"limit"`
	Targets []TargetConfig    `yaml:"targets"`
	Options map[string]string `yaml:"options"`
}

// TargetConfig is a concrete endpoint to crawl (a feed or list URL).
type TargetConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ClassifierConfig defines how to contact the external baseline model.
type ClassifierConfig struct {
	Endpoint     string `yaml:"endpoint"`
	APIKey       string `yaml:"apiKey"`
	ModelVersion string `yaml:"modelVersion"`
	BatchSize    int    `yaml:"batchSize"`
	// Limit caps articles scored per predict run; 0 means all pending.
	Limit        int    `yaml:"limit"`
}

// LabelConfig tunes how fact-check verdicts are matched to stored articles.
type LabelConfig struct {
	MinSimilarity float64 `yaml:"minSimilarity"`
}

// Load reads YAML configuration from path (or $FAKENEWS_CONFIG when path is
// empty), merges it over the defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(classifierEndpointEnv); v != "" {
		c.Classifier.Endpoint = v
	}
	if v := os.Getenv(classifierAPIKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(featureWorkersEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", featureWorkersEnv, v, err)
		}
		c.Features.Workers = n
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if len(override.Input.Sources) > 0 {
		base.Input.Sources = override.Input.Sources
	}
	if override.Input.Prepared != "" {
		base.Input.Prepared = override.Input.Prepared
	}

	if override.Output.Features != "" {
		base.Output.Features = override.Output.Features
	}
	if override.Output.Format != "" {
		base.Output.Format = override.Output.Format
	}

	if override.Filters.MinTitleChars > 0 {
		base.Filters.MinTitleChars = override.Filters.MinTitleChars
	}
	if override.Filters.MinTextChars > 0 {
		base.Filters.MinTextChars = override.Filters.MinTextChars
	}

	if override.Features.Workers > 0 {
		base.Features.Workers = override.Features.Workers
	}
	if override.Features.ReservedCores > 0 {
		base.Features.ReservedCores = override.Features.ReservedCores
	}
	if override.Features.SentimentLexicon != "" {
		base.Features.SentimentLexicon = override.Features.SentimentLexicon
	}
	if override.Features.EmotionLexicon != "" {
		base.Features.EmotionLexicon = override.Features.EmotionLexicon
	}

	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Collect.UserAgent != "" {
		base.Collect.UserAgent = override.Collect.UserAgent
	}
	if override.Collect.RequestInterval > 0 {
		base.Collect.RequestInterval = override.Collect.RequestInterval
	}
	if override.Collect.MinArticleChars > 0 {
		base.Collect.MinArticleChars = override.Collect.MinArticleChars
	}
	if len(override.Collect.Sites) > 0 {
		base.Collect.Sites = override.Collect.Sites
	}

	if override.Classifier.Endpoint != "" {
		base.Classifier.Endpoint = override.Classifier.Endpoint
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}
	if override.Classifier.ModelVersion != "" {
		base.Classifier.ModelVersion = override.Classifier.ModelVersion
	}
	if override.Classifier.BatchSize > 0 {
		base.Classifier.BatchSize = override.Classifier.BatchSize
	}
	if override.Classifier.Limit > 0 {
		base.Classifier.Limit = override.Classifier.Limit
	}

	if override.Label.MinSimilarity > 0 {
		base.Label.MinSimilarity = override.Label.MinSimilarity
	}

	return base
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Input: InputConfig{
			Sources: []SourceConfig{
				{Path: "data/raw/Fake.csv", IsFake: true},
				{Path: "data/raw/True.csv", IsFake: false},
			},
			Prepared: "data/processed/news_prepared.csv",
		},
		Output:   OutputConfig{Features: "data/processed/features.csv", Format: "csv"},
		Filters:  FilterConfig{MinTitleChars: 20, MinTextChars: 140},
		Features: FeatureConfig{ReservedCores: 1},
		Database: DatabaseConfig{Driver: "sqlite3", DSN: "data/database.db"},
		Collect: CollectConfig{
			RequestInterval: time.Second,
			MinArticleChars: 150,
			Sites: []SiteConfig{
				{
					Name:    "news",
					Scanner: "rss",
					Limit:   5,
					Targets: []TargetConfig{
						{Name: "NY Times World", URL: "https://rss.nytimes.com/services/xml/rss/nyt/World.xml"},
						{Name: "BBC News", URL: "http://feeds.bbci.co.uk/news/world/rss.xml"},
						{Name: "The Onion (Satire)", URL: "https://www.theonion.com/rss"},
						{Name: "Babylon Bee (Satire)", URL: "https://babylonbee.com/feed"},
					},
				},
				{
					Name:    "politifact",
					Scanner: "politifact",
					Limit:   5,
					Targets: []TargetConfig{
						{Name: "latest", URL: "https://www.politifact.com/factchecks/list/"},
					},
				},
			},
		},
		Classifier: ClassifierConfig{
			Endpoint:     "http://localhost:8000",
			ModelVersion: "baseline_rf_v1",
			BatchSize:    256,
		},
		Label: LabelConfig{MinSimilarity: 0.6},
	}
}
