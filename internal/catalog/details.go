package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/cinemax/internal/domain"
)

// detailsConcurrency bounds parallel details requests in batch lookups
const detailsConcurrency = 4

// DetailsService serves movie and show details offline-first: the cached
// copy is handed out immediately, then replaced by a fresh fetch.
type DetailsService struct {
	client Client
	store  domain.Store
	logger *slog.Logger
}

// NewDetailsService creates a new details service.
func NewDetailsService(client Client, store domain.Store, logger *slog.Logger) *DetailsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailsService{client: client, store: store, logger: logger}
}

// MovieDetails returns fresh details for a movie. onCached, if set, receives
// the cached copy before the network is hit. When the fetch fails and a
// cached copy exists, the cached copy is returned together with the error.
func (s *DetailsService) MovieDetails(ctx context.Context, id int, onCached func(*domain.MovieDetails)) (*domain.MovieDetails, error) {
	cached, ok := s.store.MovieDetails(id)
	if ok {
		cached.IsWishlisted = s.store.IsWishlisted(domain.MediaTypeMovie, id)
		s.logger.Debug("movie details cache hit", "id", id)
		if onCached != nil {
			onCached(cached)
		}
	}

	fresh, err := s.client.MovieDetails(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch movie details", "id", id, "error", err)
		if ok {
			return cached, err
		}
		return nil, err
	}

	if err := s.store.SaveMovieDetails(fresh); err != nil {
		s.logger.Error("failed to save movie details", "id", id, "error", err)
	}
	fresh.IsWishlisted = s.store.IsWishlisted(domain.MediaTypeMovie, id)
	return fresh, nil
}

// TvShowDetails is MovieDetails for TV shows
func (s *DetailsService) TvShowDetails(ctx context.Context, id int, onCached func(*domain.TvShowDetails)) (*domain.TvShowDetails, error) {
	cached, ok := s.store.TvShowDetails(id)
	if ok {
		cached.IsWishlisted = s.store.IsWishlisted(domain.MediaTypeTV, id)
		s.logger.Debug("tv details cache hit", "id", id)
		if onCached != nil {
			onCached(cached)
		}
	}

	fresh, err := s.client.TvShowDetails(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch tv details", "id", id, "error", err)
		if ok {
			return cached, err
		}
		return nil, err
	}

	if err := s.store.SaveTvShowDetails(fresh); err != nil {
		s.logger.Error("failed to save tv details", "id", id, "error", err)
	}
	fresh.IsWishlisted = s.store.IsWishlisted(domain.MediaTypeTV, id)
	return fresh, nil
}

// MoviesByIDs returns details for each id in order, preferring the cache.
// Missing ids are fetched concurrently. IDs that cannot be resolved are
// left out and their errors are joined into the returned error.
func (s *DetailsService) MoviesByIDs(ctx context.Context, ids []int) ([]*domain.MovieDetails, error) {
	resolved, err := byIDs(ctx, ids, s.store.MovieDetails, s.client.MovieDetails, s.store.SaveMovieDetails, s.logger)
	for _, d := range resolved {
		d.IsWishlisted = s.store.IsWishlisted(domain.MediaTypeMovie, d.ID)
	}
	return resolved, err
}

// TvShowsByIDs is MoviesByIDs for TV shows
func (s *DetailsService) TvShowsByIDs(ctx context.Context, ids []int) ([]*domain.TvShowDetails, error) {
	resolved, err := byIDs(ctx, ids, s.store.TvShowDetails, s.client.TvShowDetails, s.store.SaveTvShowDetails, s.logger)
	for _, d := range resolved {
		d.IsWishlisted = s.store.IsWishlisted(domain.MediaTypeTV, d.ID)
	}
	return resolved, err
}

func byIDs[T any](
	ctx context.Context,
	ids []int,
	cached func(int) (*T, bool),
	fetch func(context.Context, int) (*T, error),
	save func(*T) error,
	logger *slog.Logger,
) ([]*T, error) {
	results := make([]*T, len(ids))
	var missing []int
	for i, id := range ids {
		if d, ok := cached(id); ok {
			results[i] = d
		} else {
			missing = append(missing, i)
		}
	}

	if len(missing) > 0 {
		logger.Debug("fetching missing details", "count", len(missing))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(detailsConcurrency)

		var mu sync.Mutex
		var errs []error

		for _, idx := range missing {
			id := ids[idx]
			g.Go(func() error {
				d, err := fetch(gctx, id)
				if err != nil {
					logger.Warn("failed to fetch details", "id", id, "error", err)
					if !errors.Is(err, domain.ErrNotFound) {
						mu.Lock()
						errs = append(errs, err)
						mu.Unlock()
					}
					// Keep resolving the other ids
					return nil
				}
				if err := save(d); err != nil {
					logger.Error("failed to save details", "id", id, "error", err)
				}
				results[idx] = d
				return nil
			})
		}
		g.Wait()

		if len(errs) > 0 {
			return compact(results), errors.Join(errs...)
		}
	}

	return compact(results), nil
}

func compact[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}
