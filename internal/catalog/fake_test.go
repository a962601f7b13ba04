package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/store"
	"github.com/mmcdole/cinemax/internal/tmdb"
)

// fakeClient serves generated pages and canned details
type fakeClient struct {
	mu sync.Mutex

	totalPages int
	perPage    int
	fetchErr   error
	fetched    []int
	entered    chan struct{} // signalled when a fetch starts, if set
	block      chan struct{} // fetches wait on it, if set

	movies      map[int]*domain.MovieDetails
	shows       map[int]*domain.TvShowDetails
	detailsErr  error
	detailCalls int
}

func newFakeClient(totalPages, perPage int) *fakeClient {
	return &fakeClient{
		totalPages: totalPages,
		perPage:    perPage,
		movies:     make(map[int]*domain.MovieDetails),
		shows:      make(map[int]*domain.TvShowDetails),
	}
}

func (c *fakeClient) FetchPage(ctx context.Context, category domain.Category, page int) ([]tmdb.ItemDTO, bool, error) {
	c.mu.Lock()
	entered, block := c.entered, c.block
	c.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, false, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, ctx.Err())
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetched = append(c.fetched, page)
	if c.fetchErr != nil {
		return nil, false, c.fetchErr
	}
	if page > c.totalPages {
		return nil, false, nil
	}
	dtos := make([]tmdb.ItemDTO, c.perPage)
	for i := range dtos {
		id := page*100 + i
		dtos[i] = tmdb.ItemDTO{ID: id, Title: fmt.Sprintf("%s %d", category, id), Name: fmt.Sprintf("show %d", id)}
	}
	return dtos, page < c.totalPages, nil
}

func (c *fakeClient) MovieDetails(_ context.Context, id int) (*domain.MovieDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detailCalls++
	if c.detailsErr != nil {
		return nil, c.detailsErr
	}
	d, ok := c.movies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (c *fakeClient) TvShowDetails(_ context.Context, id int) (*domain.TvShowDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detailCalls++
	if c.detailsErr != nil {
		return nil, c.detailsErr
	}
	d, ok := c.shows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (c *fakeClient) fetchedPages() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.fetched...)
}

func (c *fakeClient) setFetchErr(err error) {
	c.mu.Lock()
	c.fetchErr = err
	c.mu.Unlock()
}

func newMemoryStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore("", "")
	require.NoError(t, err)
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }
