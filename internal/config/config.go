package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const appDirName = "wthr"

// Config holds all runtime settings. Values are layered: defaults, then the
// optional YAML file, then .env and process environment.
type Config struct {
	APIKey          string        `yaml:"api_key" envconfig:"OPENWEATHER_API_KEY"`
	BaseURL         string        `yaml:"base_url" envconfig:"WTHR_BASE_URL" validate:"required,url"`
	GeoURL          string        `yaml:"geo_url" envconfig:"WTHR_GEO_URL" validate:"required,url"`
	Units           string        `yaml:"units" envconfig:"WTHR_UNITS" validate:"oneof=metric imperial standard"`
	Lang            string        `yaml:"lang" envconfig:"WTHR_LANG" validate:"required"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"WTHR_TIMEOUT" validate:"gt=0"`
	SuggestLimit    int           `yaml:"suggest_limit" envconfig:"WTHR_SUGGEST_LIMIT" validate:"min=1,max=5"`
	SuggestCacheTTL time.Duration `yaml:"suggest_cache_ttl" envconfig:"WTHR_SUGGEST_CACHE_TTL" validate:"gte=0"`
	DataDir         string        `yaml:"data_dir" envconfig:"WTHR_DATA_DIR" validate:"required"`
	LogFile         string        `yaml:"log_file" envconfig:"WTHR_LOG_FILE"`
	LogLevel        string        `yaml:"log_level" envconfig:"WTHR_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Debounce        time.Duration `yaml:"debounce" envconfig:"WTHR_DEBOUNCE" validate:"gte=0"`
	RefreshInterval time.Duration `yaml:"refresh_interval" envconfig:"WTHR_REFRESH_INTERVAL" validate:"gte=0"`
}

// Default returns the built-in configuration
func Default() *Config {
	dir := DefaultDataDir()
	return &Config{
		BaseURL:         "https://api.openweathermap.org/data/2.5",
		GeoURL:          "https://api.openweathermap.org/geo/1.0",
		Units:           "metric",
		Lang:            "uk",
		Timeout:         10 * time.Second,
		SuggestLimit:    5,
		SuggestCacheTTL: 24 * time.Hour,
		DataDir:         dir,
		LogLevel:        "info",
		Debounce:        300 * time.Millisecond,
		RefreshInterval: 10 * time.Minute,
	}
}

// DefaultDataDir returns the directory holding the city list, config and log
func DefaultDataDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appDirName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}

	return filepath.Join(home, ".config", appDirName)
}

// DefaultPath returns the default YAML config location
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Load builds the configuration. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path comes from the --config flag
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// .env is optional; existing environment variables take precedence over it
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, appDirName+".log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// CitiesFile is the path of the persisted city list
func (c *Config) CitiesFile() string {
	return filepath.Join(c.DataDir, "cities.json")
}

// CacheDir is the directory of the suggestion response cache
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}
