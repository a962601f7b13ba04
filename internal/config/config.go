package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/paging"
	"github.com/mmcdole/cinemax/internal/tmdb"
)

const appName = "cinemax"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Paging  PagingConfig  `mapstructure:"paging"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// APIConfig holds catalog API configuration
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	APIKey       string        `mapstructure:"api_key"`      // v3 key
	AccessToken  string        `mapstructure:"access_token"` // v4 read token
	Language     string        `mapstructure:"language"`
	Region       string        `mapstructure:"region"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second
	MaxRetries   int           `mapstructure:"max_retries"`
}

// PagingConfig controls how category listings are paged and cached
type PagingConfig struct {
	StartingPage     int           `mapstructure:"starting_page"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	PrefetchDistance int           `mapstructure:"prefetch_distance"`
}

// CacheConfig holds local cache configuration. An empty dir keeps the cache in memory.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultCategory string `mapstructure:"default_category"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      tmdb.DefaultBaseURL,
			ImageBaseURL: tmdb.DefaultImageBaseURL,
			Language:     "en-US",
			Timeout:      15 * time.Second,
			RateLimit:    20,
			MaxRetries:   3,
		},
		Paging: PagingConfig{
			StartingPage:     1,
			CacheTTL:         time.Hour,
			PrefetchDistance: 5,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		UI: UIConfig{
			DefaultCategory: string(domain.CategoryPopularMovies),
		},
	}
}

// setDefaults registers every key with viper so env overrides and
// Unmarshal see them even without a config file
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.image_base_url", d.API.ImageBaseURL)
	v.SetDefault("api.api_key", d.API.APIKey)
	v.SetDefault("api.access_token", d.API.AccessToken)
	v.SetDefault("api.language", d.API.Language)
	v.SetDefault("api.region", d.API.Region)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.rate_limit", d.API.RateLimit)
	v.SetDefault("api.max_retries", d.API.MaxRetries)

	v.SetDefault("paging.starting_page", d.Paging.StartingPage)
	v.SetDefault("paging.cache_ttl", d.Paging.CacheTTL)
	v.SetDefault("paging.prefetch_distance", d.Paging.PrefetchDistance)

	v.SetDefault("cache.dir", d.Cache.Dir)

	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)

	v.SetDefault("ui.default_category", d.UI.DefaultCategory)
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// DefaultConfigFile returns the path SaveConfig writes to by default
func DefaultConfigFile() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// LoadConfig loads configuration from file, .env and environment.
// configFile overrides the search path when non-empty.
func LoadConfig(configFile string) (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	// CINEMAX_API_BASE_URL overrides api.base_url, and so on
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials also accept the short and the TMDB-conventional names
	if err := v.BindEnv("api.api_key", "CINEMAX_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("api.access_token", "CINEMAX_ACCESS_TOKEN", "TMDB_ACCESS_TOKEN"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configFile != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges. Missing credentials are not an error here;
// callers that need the API check IsConfigured.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}

	if c.Paging.StartingPage < 1 {
		return fmt.Errorf("paging.starting_page must be at least 1")
	}
	if c.Paging.CacheTTL < 0 {
		return fmt.Errorf("paging.cache_ttl must not be negative")
	}
	if c.Paging.PrefetchDistance < 0 {
		return fmt.Errorf("paging.prefetch_distance must not be negative")
	}

	validLevels := map[string]bool{
		"DEBUG":   true,
		"INFO":    true,
		"WARN":    true,
		"WARNING": true,
		"ERROR":   true,
	}
	if !validLevels[strings.ToUpper(c.Logging.Level)] {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.UI.DefaultCategory != "" {
		if _, err := domain.ParseCategory(c.UI.DefaultCategory); err != nil {
			return fmt.Errorf("ui.default_category: %w", err)
		}
	}
	return nil
}

// IsConfigured returns true if API credentials are set
func (c *Config) IsConfigured() bool {
	return c.API.APIKey != "" || c.API.AccessToken != ""
}

// TMDBOptions maps the API section onto client options
func (c *Config) TMDBOptions() tmdb.Options {
	return tmdb.Options{
		BaseURL:      c.API.BaseURL,
		ImageBaseURL: c.API.ImageBaseURL,
		APIKey:       c.API.APIKey,
		AccessToken:  c.API.AccessToken,
		Language:     c.API.Language,
		Region:       c.API.Region,
		Timeout:      c.API.Timeout,
		RateLimit:    c.API.RateLimit,
		MaxRetries:   c.API.MaxRetries,
	}
}

// PagerConfig maps the paging section onto pager settings. The page size is
// fixed by the catalog API and not configurable.
func (c *Config) PagerConfig() paging.Config {
	return paging.Config{
		StartingPage: c.Paging.StartingPage,
		PageSize:     tmdb.PageSize,
		CacheTTL:     c.Paging.CacheTTL,
	}
}

// DefaultCategory returns the configured start category, falling back to popular movies
func (c *Config) DefaultCategory() domain.Category {
	if cat, err := domain.ParseCategory(c.UI.DefaultCategory); err == nil {
		return cat
	}
	return domain.CategoryPopularMovies
}

// SaveConfig writes cfg to path, or to the default config file when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to keep snake_case key names
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.image_base_url", cfg.API.ImageBaseURL)
	v.Set("api.api_key", cfg.API.APIKey)
	v.Set("api.access_token", cfg.API.AccessToken)
	v.Set("api.language", cfg.API.Language)
	v.Set("api.region", cfg.API.Region)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.rate_limit", cfg.API.RateLimit)
	v.Set("api.max_retries", cfg.API.MaxRetries)

	v.Set("paging.starting_page", cfg.Paging.StartingPage)
	v.Set("paging.cache_ttl", cfg.Paging.CacheTTL.String())
	v.Set("paging.prefetch_distance", cfg.Paging.PrefetchDistance)

	v.Set("cache.dir", cfg.Cache.Dir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.Set("ui.default_category", cfg.UI.DefaultCategory)

	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
