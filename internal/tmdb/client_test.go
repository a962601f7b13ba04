package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cinemax/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts.BaseURL = server.URL
	opts.RetryWaitMin = time.Millisecond
	opts.RetryWaitMax = 5 * time.Millisecond
	return NewClient(opts, testLogger())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestClient_FetchPage(t *testing.T) {
	tests := []struct {
		name        string
		category    domain.Category
		page        int
		totalPages  int
		wantPath    string
		wantHasNext bool
	}{
		{name: "discover first page", category: domain.CategoryDiscoverMovies, page: 1, totalPages: 500, wantPath: "/discover/movie", wantHasNext: true},
		{name: "last page", category: domain.CategoryPopularTV, page: 3, totalPages: 3, wantPath: "/tv/popular", wantHasNext: false},
		{name: "trending", category: domain.CategoryTrendingMovies, page: 2, totalPages: 10, wantPath: "/trending/movie/week", wantHasNext: true},
		{name: "page limit", category: domain.CategoryPopularMovies, page: 500, totalPages: 47000, wantPath: "/movie/popular", wantHasNext: false},
		{name: "below page limit", category: domain.CategoryPopularMovies, page: 499, totalPages: 47000, wantPath: "/movie/popular", wantHasNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, "en-US", r.URL.Query().Get("language"))
				writeJSON(w, map[string]interface{}{
					"page":          tt.page,
					"total_pages":   tt.totalPages,
					"total_results": tt.totalPages * 20,
					"results": []map[string]interface{}{
						{"id": 550, "title": "Fight Club", "vote_average": 8.4},
						{"id": 551, "name": "Some Show"},
					},
				})
			}, Options{Language: "en-US"})

			items, hasNext, err := client.FetchPage(context.Background(), tt.category, tt.page)
			require.NoError(t, err)
			assert.Len(t, items, 2)
			assert.Equal(t, 550, items[0].ID)
			assert.Equal(t, tt.wantHasNext, hasNext)
		})
	}
}

func TestClient_Auth(t *testing.T) {
	t.Run("bearer token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
			assert.Empty(t, r.URL.Query().Get("api_key"))
			writeJSON(w, map[string]interface{}{"page": 1, "total_pages": 1, "results": []interface{}{}})
		}, Options{AccessToken: "token-123", APIKey: "key-456"})

		_, _, err := client.FetchPage(context.Background(), domain.CategoryPopularMovies, 1)
		require.NoError(t, err)
	})

	t.Run("api key", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "key-456", r.URL.Query().Get("api_key"))
			writeJSON(w, map[string]interface{}{"page": 1, "total_pages": 1, "results": []interface{}{}})
		}, Options{APIKey: "key-456"})

		_, _, err := client.FetchPage(context.Background(), domain.CategoryPopularMovies, 1)
		require.NoError(t, err)
	})
}

func TestClient_RegionOnlyOnRegionalLists(t *testing.T) {
	var regions []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		regions = append(regions, r.URL.Query().Get("region"))
		writeJSON(w, map[string]interface{}{"page": 1, "total_pages": 1, "results": []interface{}{}})
	}, Options{Region: "DE"})

	ctx := context.Background()
	_, _, err := client.FetchPage(ctx, domain.CategoryNowPlayingMovies, 1)
	require.NoError(t, err)
	_, _, err = client.FetchPage(ctx, domain.CategoryTrendingTV, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"DE", ""}, regions)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"status_code":7,"status_message":"Invalid API key"}`, wantErr: domain.ErrAuthFailed},
		{name: "not found", status: http.StatusNotFound, body: `{}`, wantErr: domain.ErrNotFound},
		{name: "server error", status: http.StatusBadGateway, body: `{"status_message":"upstream"}`, wantErr: domain.ErrNetworkFailure},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"status_code":25}`, wantErr: domain.ErrNetworkFailure},
		{name: "invalid page", status: http.StatusBadRequest, body: `{"status_code":22,"status_message":"Invalid page: Pages start at 1 and max at 500."}`, wantErr: domain.ErrRequestRejected},
		{name: "malformed body", status: http.StatusOK, body: `{"page": "one"`, wantErr: domain.ErrDecodeFailure},
		{name: "missing envelope", status: http.StatusOK, body: `{}`, wantErr: domain.ErrDecodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}, Options{})

			_, _, err := client.FetchPage(context.Background(), domain.CategoryPopularMovies, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_APIErrorCarriesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"status_code":3,"status_message":"Suspended"}`)
	}, Options{})

	_, err := client.MovieDetails(context.Background(), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Suspended", apiErr.Message)
	assert.ErrorIs(t, err, domain.ErrRequestRejected)
	assert.NotErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]interface{}{"page": 1, "total_pages": 2, "results": []map[string]interface{}{{"id": 1, "title": "A"}}})
	}, Options{MaxRetries: 2})

	items, hasNext, err := client.FetchPage(context.Background(), domain.CategoryUpcomingMovies, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, hasNext)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Options{BaseURL: url}, testLogger())
	_, _, err := client.FetchPage(context.Background(), domain.CategoryPopularMovies, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestClient_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"page": 1, "total_pages": 1, "results": []interface{}{}})
	}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.FetchPage(ctx, domain.CategoryPopularMovies, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_UnknownCategory(t *testing.T) {
	client := NewClient(Options{}, testLogger())
	_, _, err := client.FetchPage(context.Background(), domain.Category("bogus"), 1)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestClient_MovieDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550", r.URL.Path)
		io.WriteString(w, `{
			"id": 550, "title": "Fight Club", "tagline": "Mischief. Mayhem. Soap.",
			"runtime": 139, "imdb_id": "tt0137523", "homepage": null,
			"genres": [{"id": 18, "name": "Drama"}],
			"vote_average": 8.4, "vote_count": 27000, "poster_path": "/p.jpg"
		}`)
	}, Options{})

	details, err := client.MovieDetails(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", details.Title)
	assert.Equal(t, 139, details.Runtime)
	assert.Equal(t, "tt0137523", details.IMDbID)
	assert.Empty(t, details.Homepage)
	assert.Equal(t, []domain.Genre{{ID: 18, Name: "Drama"}}, details.Genres)
	assert.False(t, details.FetchedAt.IsZero())
}

func TestClient_TvShowDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1399", r.URL.Path)
		io.WriteString(w, `{
			"id": 1399, "name": "Game of Thrones", "first_air_date": "2011-04-17",
			"number_of_seasons": 8, "number_of_episodes": 73, "episode_run_time": [60],
			"networks": [{"id": 49, "name": "HBO"}]
		}`)
	}, Options{})

	details, err := client.TvShowDetails(context.Background(), 1399)
	require.NoError(t, err)
	assert.Equal(t, "Game of Thrones", details.Name)
	assert.Equal(t, 60, details.EpisodeRuntime)
	assert.Equal(t, []string{"HBO"}, details.Networks)
	assert.Equal(t, 2011, details.Year())
}

func TestClient_SearchDropsPeople(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "matrix", r.URL.Query().Get("query"))
		io.WriteString(w, `{"page": 1, "total_pages": 1, "results": [
			{"id": 603, "media_type": "movie", "title": "The Matrix", "release_date": "1999-03-30"},
			{"id": 6384, "media_type": "person", "name": "Keanu Reeves"},
			{"id": 9, "media_type": "tv", "name": "Matrix", "first_air_date": "1993-03-01"}
		]}`)
	}, Options{})

	results, hasNext, err := client.Search(context.Background(), "  matrix ", 0)
	require.NoError(t, err)
	assert.False(t, hasNext)
	require.Len(t, results, 2)
	assert.Equal(t, domain.MediaTypeMovie, results[0].MediaType)
	assert.Equal(t, 1999, results[0].Year())
	assert.Equal(t, domain.MediaTypeTV, results[1].MediaType)
}

func TestClient_ImageURL(t *testing.T) {
	client := NewClient(Options{}, testLogger())
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", client.ImageURL("/abc.jpg", "w500"))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/abc.jpg", client.ImageURL("/abc.jpg", ""))
	assert.Empty(t, client.ImageURL("", "w500"))
}
