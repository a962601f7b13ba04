package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cinemax/internal/domain"
)

// runCLI executes the root command against a throwaway config and cache
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", dir)
	t.Setenv("CINEMAX_API_KEY", "")
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("CINEMAX_ACCESS_TOKEN", "")
	t.Setenv("TMDB_ACCESS_TOKEN", "")
	t.Setenv("CINEMAX_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("CINEMAX_LOGGING_FILE", filepath.Join(dir, "cinemax.log"))

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		flagExportFormat = "yaml"
		flagExportOutput = ""
		flagListCached = false
	})

	err := RootCmd.Execute()
	return out.String(), err
}

func TestCategoriesCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "categories")
	require.NoError(t, err)
	for _, info := range domain.Categories() {
		assert.Contains(t, out, string(info.Category))
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.2.3"
	t.Cleanup(func() { Version = "dev" })

	out, err := runCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "cinemax 1.2.3\n", out)
}

func TestNetworkCommandsNeedCredentials(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "list", "popular_movies")
	assert.ErrorIs(t, err, errNotConfigured)

	_, err = runCLI(t, dir, "details", "movie", "42")
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestListRejectsUnknownCategory(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "list", "cartoons")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestListCachedWorksOffline(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "list", "popular_movies", "--cached")
	require.NoError(t, err)
	assert.Contains(t, out, "Popular Movies")
	assert.Contains(t, out, "0 items")
}

func TestWishlistRoundTrip(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "wishlist", "add", "movie", "603")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")

	_, err = runCLI(t, dir, "wishlist", "add", "tv", "1396")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "wishlist", "export", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Movies  []struct{ ID int } `json:"movies"`
		TvShows []struct{ ID int } `json:"tv_shows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Movies, 1)
	require.Len(t, doc.TvShows, 1)
	assert.Equal(t, 603, doc.Movies[0].ID)
	assert.Equal(t, 1396, doc.TvShows[0].ID)

	_, err = runCLI(t, dir, "wishlist", "remove", "movie", "603")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "wishlist", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Movies (0)")
	assert.Contains(t, out, "TV Shows (1)")
}

func TestWishlistRejectsBadTarget(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "wishlist", "add", "book", "1")
	assert.Error(t, err)

	_, err = runCLI(t, dir, "wishlist", "add", "movie", "abc")
	assert.Error(t, err)
}

func TestSearchRejectsBadFilter(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "search", "--filter", "rating >")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid filter"))
}

func TestCacheClearCategory(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "cache", "clear", "popular_movies")
	require.NoError(t, err)
	assert.Contains(t, out, "popular_movies")

	_, err = runCLI(t, dir, "cache", "clear", "cartoons")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	out, err = runCLI(t, dir, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")
}
