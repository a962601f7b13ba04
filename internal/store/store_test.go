package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cinemax/internal/domain"
)

// forEachMode runs a test against a bolt-backed and a memory-only store
func forEachMode(t *testing.T, fn func(t *testing.T, s *Store)) {
	t.Run("bolt", func(t *testing.T) {
		s, err := NewStore(t.TempDir(), "https://api.themoviedb.org/3")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
	t.Run("memory", func(t *testing.T) {
		s, err := NewStore("", "")
		require.NoError(t, err)
		fn(t, s)
	})
}

func intPtr(v int) *int { return &v }

func page(category domain.Category, pageNum, n int, prev, next *int) ([]domain.CatalogItem, []domain.RemoteKey) {
	items := make([]domain.CatalogItem, n)
	keys := make([]domain.RemoteKey, n)
	for i := 0; i < n; i++ {
		id := pageNum*100 + i
		items[i] = domain.CatalogItem{
			ID:        id,
			MediaType: domain.MediaTypeMovie,
			Title:     "Movie",
			Page:      pageNum,
			Position:  i,
		}
		keys[i] = domain.RemoteKey{ID: id, PrevPage: prev, NextPage: next}
	}
	return items, keys
}

func TestNewStore_NamespacesByAPIURL(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, "https://api.themoviedb.org/3/")
	require.NoError(t, err)
	defer s.Close()

	want := filepath.Join(dir, hashServerURL("https://API.themoviedb.org/3"), "cinemax.db")
	assert.Equal(t, want, s.Path())
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, "https://api.themoviedb.org/3")
	require.NoError(t, err)

	items, keys := page(domain.CategoryPopularMovies, 1, 3, nil, intPtr(2))
	require.NoError(t, s.ReplaceAll(domain.CategoryPopularMovies, items, keys))
	require.NoError(t, s.Close())

	s, err = NewStore(dir, "https://api.themoviedb.org/3")
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Items(domain.CategoryPopularMovies)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.False(t, s.LastRefresh(domain.CategoryPopularMovies).IsZero())
}

func TestStore_ReplaceAll(t *testing.T) {
	forEachMode(t, func(t *testing.T, s *Store) {
		cat := domain.CategoryDiscoverMovies
		items, keys := page(cat, 2, 5, intPtr(1), intPtr(3))
		require.NoError(t, s.Upsert(cat, items, keys))
		items, keys = page(cat, 3, 5, intPtr(2), intPtr(4))
		require.NoError(t, s.Upsert(cat, items, keys))
		assert.Equal(t, 10, s.ItemCount(cat))

		before := time.Now()
		items, keys = page(cat, 1, 4, nil, intPtr(2))
		require.NoError(t, s.ReplaceAll(cat, items, keys))

		got, err := s.Items(cat)
		require.NoError(t, err)
		require.Len(t, got, 4)
		for i, it := range got {
			assert.Equal(t, 1, it.Page)
			assert.Equal(t, i, it.Position)
			assert.Equal(t, cat, it.Category)
		}

		// keys of the old pages are gone with their items
		key, err := s.RemoteKey(cat, 200)
		require.NoError(t, err)
		assert.Nil(t, key)

		key, err = s.RemoteKey(cat, 100)
		require.NoError(t, err)
		require.NotNil(t, key)
		assert.Nil(t, key.PrevPage)
		assert.Equal(t, 2, *key.NextPage)

		assert.False(t, s.LastRefresh(cat).Before(before.Add(-time.Second)))
	})
}

func TestStore_UpsertKeepsOtherRows(t *testing.T) {
	forEachMode(t, func(t *testing.T, s *Store) {
		cat := domain.CategoryTopRatedTV
		items, keys := page(cat, 1, 3, nil, intPtr(2))
		require.NoError(t, s.ReplaceAll(cat, items, keys))

		items, keys = page(cat, 2, 3, intPtr(1), nil)
		require.NoError(t, s.Upsert(cat, items, keys))

		got, err := s.Items(cat)
		require.NoError(t, err)
		require.Len(t, got, 6)
		assert.Equal(t, 1, got[0].Page)
		assert.Equal(t, 2, got[5].Page)

		// overwrite in place
		items[0].Title = "Renamed"
		require.NoError(t, s.Upsert(cat, items[:1], keys[:1]))
		got, _ = s.Items(cat)
		assert.Len(t, got, 6)
		assert.Equal(t, "Renamed", got[3].Title)
	})
}

func TestStore_CategoriesAreIndependent(t *testing.T) {
	forEachMode(t, func(t *testing.T, s *Store) {
		items, keys := page(domain.CategoryPopularMovies, 1, 3, nil, intPtr(2))
		require.NoError(t, s.ReplaceAll(domain.CategoryPopularMovies, items, keys))

		// same IDs, different category and cursor
		items, keys = page(domain.CategoryTrendingMovies, 1, 3, nil, nil)
		require.NoError(t, s.ReplaceAll(domain.CategoryTrendingMovies, items, keys))

		popular, err := s.RemoteKey(domain.CategoryPopularMovies, 100)
		require.NoError(t, err)
		require.NotNil(t, popular.NextPage)

		trending, err := s.RemoteKey(domain.CategoryTrendingMovies, 100)
		require.NoError(t, err)
		assert.Nil(t, trending.NextPage)

		require.NoError(t, s.InvalidateCategory(domain.CategoryTrendingMovies))
		assert.Zero(t, s.ItemCount(domain.CategoryTrendingMovies))
		assert.True(t, s.LastRefresh(domain.CategoryTrendingMovies).IsZero())
		assert.Equal(t, 3, s.ItemCount(domain.CategoryPopularMovies))
	})
}

func TestStore_Details(t *testing.T) {
	forEachMode(t, func(t *testing.T, s *Store) {
		_, ok := s.MovieDetails(550)
		assert.False(t, ok)

		require.NoError(t, s.SaveMovieDetails(&domain.MovieDetails{ID: 550, Title: "Fight Club", Runtime: 139, IsWishlisted: true}))
		require.NoError(t, s.SaveTvShowDetails(&domain.TvShowDetails{ID: 550, Name: "Some Show"}))

		movie, ok := s.MovieDetails(550)
		require.True(t, ok)
		assert.Equal(t, "Fight Club", movie.Title)
		assert.False(t, movie.IsWishlisted, "wishlist flag is never persisted")

		show, ok := s.TvShowDetails(550)
		require.True(t, ok)
		assert.Equal(t, "Some Show", show.Name)
	})
}

func TestStore_Wishlist(t *testing.T) {
	forEachMode(t, func(t *testing.T, s *Store) {
		now := time.Now()
		require.NoError(t, s.AddToWishlist(domain.WishlistEntry{ID: 1, MediaType: domain.MediaTypeMovie, AddedAt: now.Add(-time.Hour)}))
		require.NoError(t, s.AddToWishlist(domain.WishlistEntry{ID: 2, MediaType: domain.MediaTypeMovie, AddedAt: now}))
		require.NoError(t, s.AddToWishlist(domain.WishlistEntry{ID: 1, MediaType: domain.MediaTypeTV}))

		assert.True(t, s.IsWishlisted(domain.MediaTypeMovie, 1))
		assert.True(t, s.IsWishlisted(domain.MediaTypeTV, 1))
		assert.False(t, s.IsWishlisted(domain.MediaTypeTV, 2))

		movies, err := s.Wishlist(domain.MediaTypeMovie)
		require.NoError(t, err)
		require.Len(t, movies, 2)
		assert.Equal(t, 2, movies[0].ID, "newest first")

		// re-adding keeps the original timestamp
		require.NoError(t, s.AddToWishlist(domain.WishlistEntry{ID: 1, MediaType: domain.MediaTypeMovie, AddedAt: now.Add(time.Hour)}))
		movies, _ = s.Wishlist(domain.MediaTypeMovie)
		assert.Equal(t, 2, movies[0].ID)

		require.NoError(t, s.RemoveFromWishlist(domain.MediaTypeMovie, 1))
		require.NoError(t, s.RemoveFromWishlist(domain.MediaTypeMovie, 1))
		assert.False(t, s.IsWishlisted(domain.MediaTypeMovie, 1))
		assert.True(t, s.IsWishlisted(domain.MediaTypeTV, 1))

		assert.Error(t, s.AddToWishlist(domain.WishlistEntry{ID: 3, MediaType: "person"}))
	})
}

func TestStore_InvalidateAllKeepsWishlist(t *testing.T) {
	forEachMode(t, func(t *testing.T, s *Store) {
		items, keys := page(domain.CategoryPopularTV, 1, 2, nil, intPtr(2))
		require.NoError(t, s.ReplaceAll(domain.CategoryPopularTV, items, keys))
		require.NoError(t, s.SaveMovieDetails(&domain.MovieDetails{ID: 7}))
		require.NoError(t, s.AddToWishlist(domain.WishlistEntry{ID: 7, MediaType: domain.MediaTypeMovie}))

		require.NoError(t, s.InvalidateAll())

		assert.Zero(t, s.ItemCount(domain.CategoryPopularTV))
		assert.True(t, s.LastRefresh(domain.CategoryPopularTV).IsZero())
		_, ok := s.MovieDetails(7)
		assert.False(t, ok)
		assert.True(t, s.IsWishlisted(domain.MediaTypeMovie, 7))

		// store stays writable
		require.NoError(t, s.ReplaceAll(domain.CategoryPopularTV, items, keys))
		assert.Equal(t, 2, s.ItemCount(domain.CategoryPopularTV))
	})
}

func TestMemTx_FailedUpdateLeavesStoreUntouched(t *testing.T) {
	s, err := NewStore("", "")
	require.NoError(t, err)

	cat := domain.CategoryUpcomingMovies
	items, keys := page(cat, 1, 3, nil, intPtr(2))
	require.NoError(t, s.ReplaceAll(cat, items, keys))

	err = s.update(func(tx kvTx) error {
		require.NoError(t, tx.dropBucket(itemsBucket(cat)))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 3, s.ItemCount(cat))
}
