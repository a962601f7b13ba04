package catalog

import "github.com/mmcdole/cinemax/internal/domain"

// Queries provides synchronous, cache-only reads.
type Queries struct {
	store domain.Store
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.Store) *Queries {
	return &Queries{store: store}
}

func (q *Queries) CachedItems(category domain.Category) ([]domain.CatalogItem, error) {
	return q.store.Items(category)
}

func (q *Queries) CachedCount(category domain.Category) int {
	return q.store.ItemCount(category)
}

// AllCachedItems returns the cached rows of every category in display order
func (q *Queries) AllCachedItems() ([]domain.CatalogItem, error) {
	var all []domain.CatalogItem
	for _, info := range domain.Categories() {
		items, err := q.store.Items(info.Category)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	return all, nil
}

func (q *Queries) CachedMovieDetails(id int) (*domain.MovieDetails, bool) {
	d, ok := q.store.MovieDetails(id)
	if ok {
		d.IsWishlisted = q.store.IsWishlisted(domain.MediaTypeMovie, id)
	}
	return d, ok
}

func (q *Queries) CachedTvShowDetails(id int) (*domain.TvShowDetails, bool) {
	d, ok := q.store.TvShowDetails(id)
	if ok {
		d.IsWishlisted = q.store.IsWishlisted(domain.MediaTypeTV, id)
	}
	return d, ok
}
