package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/tmdb"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CINEMAX_API_KEY", "TMDB_API_KEY",
		"CINEMAX_ACCESS_TOKEN", "TMDB_ACCESS_TOKEN",
		"CINEMAX_API_LANGUAGE", "CINEMAX_PAGING_CACHE_TTL",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Paging.StartingPage)
	assert.Equal(t, time.Hour, cfg.Paging.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "en-US", cfg.API.Language)
	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, domain.CategoryPopularMovies, cfg.DefaultCategory())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  language: de-DE
  region: DE
  timeout: 5s
paging:
  starting_page: 2
  cache_ttl: 10m
ui:
  default_category: trending_tv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("TMDB_API_KEY", "from-env")
	t.Setenv("CINEMAX_API_LANGUAGE", "fr-FR")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.API.APIKey)
	assert.Equal(t, "fr-FR", cfg.API.Language, "env wins over file")
	assert.Equal(t, "DE", cfg.API.Region)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2, cfg.Paging.StartingPage)
	assert.Equal(t, 10*time.Minute, cfg.Paging.CacheTTL)
	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, domain.CategoryTrendingTV, cfg.DefaultCategory())

	opts := cfg.TMDBOptions()
	assert.Equal(t, "from-env", opts.APIKey)
	assert.Equal(t, "DE", opts.Region)

	pc := cfg.PagerConfig()
	assert.Equal(t, 2, pc.StartingPage)
	assert.Equal(t, tmdb.PageSize, pc.PageSize)
	assert.Equal(t, 10*time.Minute, pc.CacheTTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paging:\n  starting_page: 0\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting_page")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero starting page", mutate: func(c *Config) { c.Paging.StartingPage = 0 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.Paging.CacheTTL = -time.Second }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: true},
		{name: "lowercase level", mutate: func(c *Config) { c.Logging.Level = "debug" }},
		{name: "unknown category", mutate: func(c *Config) { c.UI.DefaultCategory = "nope" }, wantErr: true},
		{name: "no timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.AccessToken = "token"
	cfg.API.Region = "GB"
	cfg.Paging.CacheTTL = 30 * time.Minute
	cfg.UI.DefaultCategory = string(domain.CategoryUpcomingMovies)
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "token", loaded.API.AccessToken)
	assert.Equal(t, "GB", loaded.API.Region)
	assert.Equal(t, 30*time.Minute, loaded.Paging.CacheTTL)
	assert.Equal(t, domain.CategoryUpcomingMovies, loaded.DefaultCategory())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y"), expandHome("~/x/y"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}
