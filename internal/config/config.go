// Package config loads credentials and runtime settings for the fetcher and the dashboard.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configDirName = "spotify-listening-stats"
	tokenFileName = "token.json"

	// MaxLimit is the largest page Spotify returns for history and top-track requests.
	MaxLimit = 50
)

// Environment variable names.
const (
	EnvClientID      = "SPOTIPY_CLIENT_ID"
	EnvClientSecret  = "SPOTIPY_CLIENT_SECRET"
	EnvRedirectURI   = "SPOTIPY_REDIRECT_URI"
	EnvDashboardAddr = "DASHBOARD_ADDR"
)

var (
	// ErrMissingCredentials is returned when any of the three Spotify secrets is not set.
	ErrMissingCredentials = errors.New("missing SPOTIPY_CLIENT_ID, SPOTIPY_CLIENT_SECRET or SPOTIPY_REDIRECT_URI environment variable")

	// ErrInvalidConfig is returned when a setting is out of range.
	ErrInvalidConfig = errors.New("invalid config")
)

// Credentials holds the Spotify application secrets.
type Credentials struct {
	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`
	RedirectURI  string `yaml:"-"`
}

// Validate returns ErrMissingCredentials if any secret is empty.
func (c Credentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.RedirectURI == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Config holds all runtime settings. It is built once in main and passed down.
type Config struct {
	Credentials Credentials `yaml:"-"`

	DataDir    string `yaml:"data_dir"`
	RecentFile string `yaml:"recent_file"`
	TopFile    string `yaml:"top_file"`
	Limit      int    `yaml:"limit"`
	TimeRange  string `yaml:"time_range"`
	TokenCache string `yaml:"token_cache"`

	Dashboard DashboardConfig `yaml:"dashboard"`
	Log       LogConfig       `yaml:"log"`
}

// DashboardConfig holds dashboard server settings.
type DashboardConfig struct {
	Addr         string `yaml:"addr"`
	MoodClusters int    `yaml:"mood_clusters"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // "text" or "json"
}

// RecentPath returns the path of the recent plays CSV file.
func (c *Config) RecentPath() string {
	return filepath.Join(c.DataDir, c.RecentFile)
}

// TopPath returns the path of the top tracks CSV file.
func (c *Config) TopPath() string {
	return filepath.Join(c.DataDir, c.TopFile)
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	tokenCache := filepath.Join(".cache", tokenFileName)
	if dir, err := os.UserConfigDir(); err == nil {
		tokenCache = filepath.Join(dir, configDirName, tokenFileName)
	}

	return &Config{
		DataDir:    "data",
		RecentFile: "recentTracks.csv",
		TopFile:    "toptracks.csv",
		Limit:      MaxLimit,
		TimeRange:  "medium_term",
		TokenCache: tokenCache,
		Dashboard: DashboardConfig{
			Addr:         "127.0.0.1:8050",
			MoodClusters: 3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
// A .env file in the working directory is loaded first if present; variables already set
// in the process environment take precedence over it.
// An empty path skips the YAML file; a non-empty path that does not exist is an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Credentials = Credentials{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		RedirectURI:  os.Getenv(EnvRedirectURI),
	}

	if addr := os.Getenv(EnvDashboardAddr); addr != "" {
		cfg.Dashboard.Addr = addr
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Limit < 1 || c.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be in [1, %d], got %d", ErrInvalidConfig, MaxLimit, c.Limit)
	}
	switch c.TimeRange {
	case "short_term", "medium_term", "long_term":
	default:
		return fmt.Errorf("%w: unknown time_range %q", ErrInvalidConfig, c.TimeRange)
	}
	if c.Dashboard.MoodClusters < 0 {
		return fmt.Errorf("%w: mood_clusters must not be negative", ErrInvalidConfig)
	}
	return nil
}

