package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultStartID is the historical tweet ID the harvest walks back to when
// no lower bound is given.
const DefaultStartID int64 = 1132073789481787392

// Config holds all configuration options for the tweet harvester
type Config struct {
	// Twitter API credentials and client settings
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Search defaults
	Search SearchConfig `yaml:"search" json:"search"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds Twitter-specific configuration
type TwitterConfig struct {
	ConsumerKey    string        `yaml:"consumer_key" json:"consumer_key"`
	ConsumerSecret string        `yaml:"consumer_secret" json:"consumer_secret"`
	AccessToken    string        `yaml:"access_token" json:"access_token"`
	AccessSecret   string        `yaml:"access_secret" json:"access_secret"`
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	// AutoWaitRateLimit makes the client sleep through API rate-limit
	// windows instead of surfacing 429s to the caller.
	AutoWaitRateLimit bool `yaml:"auto_wait_rate_limit" json:"auto_wait_rate_limit"`
}

// SearchConfig holds search defaults, overridable per run from the CLI
type SearchConfig struct {
	Lang       string `yaml:"lang" json:"lang"`
	StartID    int64  `yaml:"start_id" json:"start_id"`
	Checkpoint int    `yaml:"checkpoint" json:"checkpoint"`
}

// OutputConfig holds output directory and sink configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	// CSV enables the streaming CSV sink (one row appended per tweet).
	CSV bool `yaml:"csv" json:"csv"`
	// ExportCSV makes the snapshot sink also dump a full CSV on close.
	ExportCSV bool `yaml:"export_csv" json:"export_csv"`
	// Manifest enables the end-of-run JSON manifest.
	Manifest bool `yaml:"manifest" json:"manifest"`
	// LooseTimestamps derives row timestamps with the legacy lenient
	// parse that substitutes the 2019 collection year.
	LooseTimestamps bool `yaml:"loose_timestamps" json:"loose_timestamps"`
}

// RateLimitConfig holds client-side pacing configuration. The reactive
// rate-limit wait (sleeping through 429 windows) is controlled by
// Twitter.AutoWaitRateLimit; this only gates proactive pacing.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled     bool `yaml:"enabled" json:"enabled"`
	OnComplete  bool `yaml:"on_complete" json:"on_complete"`
	OnError     bool `yaml:"on_error" json:"on_error"`
	OnRateLimit bool `yaml:"on_rate_limit" json:"on_rate_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			BaseURL:           "https://api.twitter.com/1.1",
			RequestTimeout:    30 * time.Second,
			AutoWaitRateLimit: true,
		},
		Search: SearchConfig{
			Lang:       "en",
			StartID:    DefaultStartID,
			Checkpoint: 50000,
		},
		Output: OutputConfig{
			Directory: ".",
			CSV:       false,
			ExportCSV: false,
			Manifest:  true,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 0, // 0 disables proactive pacing
			BurstSize:         10,
		},
		Notifications: NotificationConfig{
			Enabled:     true,
			OnComplete:  true,
			OnError:     true,
			OnRateLimit: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Twitter credentials
	if v := os.Getenv("TWEETHARVEST_CONSUMER_KEY"); v != "" {
		c.Twitter.ConsumerKey = v
	}
	if v := os.Getenv("TWEETHARVEST_CONSUMER_SECRET"); v != "" {
		c.Twitter.ConsumerSecret = v
	}
	if v := os.Getenv("TWEETHARVEST_ACCESS_TOKEN"); v != "" {
		c.Twitter.AccessToken = v
	}
	if v := os.Getenv("TWEETHARVEST_ACCESS_SECRET"); v != "" {
		c.Twitter.AccessSecret = v
	}

	// Search defaults
	if v := os.Getenv("TWEETHARVEST_LANG"); v != "" {
		c.Search.Lang = v
	}
	if v := os.Getenv("TWEETHARVEST_START_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			c.Search.StartID = id
		}
	}
	if v := os.Getenv("TWEETHARVEST_CHECKPOINT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Search.Checkpoint = n
		}
	}

	// Output directory
	if v := os.Getenv("TWEETHARVEST_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("TWEETHARVEST_LOOSE_TIMESTAMPS"); v != "" {
		c.Output.LooseTimestamps = strings.ToLower(v) == "true"
	}

	// Rate limiting
	if v := os.Getenv("TWEETHARVEST_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	// Notifications
	if v := os.Getenv("TWEETHARVEST_NOTIFICATIONS_ENABLED"); v != "" {
		c.Notifications.Enabled = strings.ToLower(v) == "true"
	}

	// Logging level
	if v := os.Getenv("TWEETHARVEST_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// DefaultConfigLocations lists the paths searched for a config file, in
// precedence order.
func DefaultConfigLocations() []string {
	return []string{
		".tweetharvest.yaml",
		".tweetharvest.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tweetharvest", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "tweetharvest", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".tweetharvest.yaml"),
		filepath.Join(os.Getenv("HOME"), ".tweetharvest.yml"),
	}
}

// FindConfigFile returns the first config file present in the standard
// locations, or "" when none exists.
func FindConfigFile() string {
	for _, loc := range DefaultConfigLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Validate checks if the configuration is valid. Credentials are not
// checked here: they may still arrive from the credential manager after
// config loading, and the startup path enforces their presence.
func (c *Config) Validate() error {
	var errs []error

	if c.Twitter.BaseURL == "" {
		errs = append(errs, errors.New("twitter base URL is required"))
	}
	if c.Twitter.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Search.Lang == "" {
		errs = append(errs, errors.New("search language is required"))
	}
	if c.Search.StartID <= 0 {
		errs = append(errs, errors.New("start ID must be positive"))
	}
	if c.Search.Checkpoint < 0 {
		errs = append(errs, errors.New("checkpoint size cannot be negative"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Search.Checkpoint == 0 && !c.Output.CSV {
		errs = append(errs, errors.New("no output selected: enable the csv sink or a positive checkpoint size"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive when pacing is enabled"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if lang, ok := flags["lang"].(string); ok && lang != "" {
		c.Search.Lang = lang
	}
	if startID, ok := flags["start_id"].(int64); ok && startID > 0 {
		c.Search.StartID = startID
	}
	if checkpoint, ok := flags["checkpoint"].(int); ok && checkpoint >= 0 {
		c.Search.Checkpoint = checkpoint
	}
	if csv, ok := flags["csv"].(bool); ok {
		c.Output.CSV = csv
	}
	if exportCSV, ok := flags["export_csv"].(bool); ok {
		c.Output.ExportCSV = exportCSV
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm >= 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if enabled, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = enabled
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tweetharvest.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// HasCredentials reports whether all four API credential values are set.
func (c *Config) HasCredentials() bool {
	return c.Twitter.ConsumerKey != "" &&
		c.Twitter.ConsumerSecret != "" &&
		c.Twitter.AccessToken != "" &&
		c.Twitter.AccessSecret != ""
}
