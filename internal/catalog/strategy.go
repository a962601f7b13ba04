package catalog

import (
	"context"
	"time"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/paging"
	"github.com/mmcdole/cinemax/internal/tmdb"
)

// Client is the remote catalog as seen by this package
type Client interface {
	FetchPage(ctx context.Context, category domain.Category, page int) ([]tmdb.ItemDTO, bool, error)
	MovieDetails(ctx context.Context, id int) (*domain.MovieDetails, error)
	TvShowDetails(ctx context.Context, id int) (*domain.TvShowDetails, error)
}

// categoryStrategy binds the generic mediator to one category's endpoint
// and its partition of the store.
type categoryStrategy struct {
	category domain.Category
	client   Client
	store    domain.Store
}

var _ paging.Backend[domain.CatalogItem, tmdb.ItemDTO] = (*categoryStrategy)(nil)

// FetchPage ignores the page size: the API always serves tmdb.PageSize results
func (s *categoryStrategy) FetchPage(ctx context.Context, page, _ int) ([]tmdb.ItemDTO, bool, error) {
	return s.client.FetchPage(ctx, s.category, page)
}

func (s *categoryStrategy) ToEntity(dto tmdb.ItemDTO, page, position int) (domain.CatalogItem, error) {
	return tmdb.MapItem(dto, s.category, page, position)
}

func (s *categoryStrategy) RemoteKey(id int, prevPage, nextPage *int) domain.RemoteKey {
	return domain.RemoteKey{ID: id, Category: s.category, PrevPage: prevPage, NextPage: nextPage}
}

func (s *categoryStrategy) RemoteKeyByID(_ context.Context, id int) (*domain.RemoteKey, error) {
	return s.store.RemoteKey(s.category, id)
}

func (s *categoryStrategy) Save(_ context.Context, refresh bool, keys []domain.RemoteKey, items []domain.CatalogItem) error {
	if refresh {
		return s.store.ReplaceAll(s.category, items, keys)
	}
	return s.store.Upsert(s.category, items, keys)
}

func (s *categoryStrategy) Items() ([]domain.CatalogItem, error) {
	return s.store.Items(s.category)
}

func (s *categoryStrategy) LastRefresh() time.Time {
	return s.store.LastRefresh(s.category)
}
