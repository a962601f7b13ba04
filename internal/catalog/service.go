package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/paging"
	"github.com/mmcdole/cinemax/internal/tmdb"
)

// Page is a category listing after a load
type Page = paging.Snapshot[domain.CatalogItem]

type pager = paging.Pager[domain.CatalogItem, tmdb.ItemDTO]

// Service owns one paging session per open category.
// Sessions are created on first use and live until Close.
type Service struct {
	client Client
	store  domain.Store
	cfg    paging.Config
	logger *slog.Logger

	mu     sync.Mutex
	pagers map[domain.Category]*pager
}

// NewService creates a new catalog service.
func NewService(client Client, store domain.Store, cfg paging.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		store:  store,
		cfg:    cfg,
		logger: logger,
		pagers: make(map[domain.Category]*pager),
	}
}

func (s *Service) pager(category domain.Category) (*pager, error) {
	if _, ok := category.Info(); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pagers[category]
	if !ok {
		strategy := &categoryStrategy{category: category, client: s.client, store: s.store}
		p = paging.NewPager[domain.CatalogItem, tmdb.ItemDTO](strategy, s.cfg, s.logger.With("category", category))
		s.pagers[category] = p
	}
	return p, nil
}

// Open performs the initial load of a category. A fresh cache is served
// without touching the network.
func (s *Service) Open(ctx context.Context, category domain.Category) (Page, error) {
	p, err := s.pager(category)
	if err != nil {
		return Page{}, err
	}
	page, err := p.Start(ctx)
	s.logResult("open", category, page, err)
	return page, err
}

// LoadMore appends the next page of a category
func (s *Service) LoadMore(ctx context.Context, category domain.Category) (Page, error) {
	p, err := s.pager(category)
	if err != nil {
		return Page{}, err
	}
	page, err := p.Append(ctx)
	s.logResult("append", category, page, err)
	return page, err
}

// LoadPrevious prepends the page before the first loaded item
func (s *Service) LoadPrevious(ctx context.Context, category domain.Category) (Page, error) {
	p, err := s.pager(category)
	if err != nil {
		return Page{}, err
	}
	page, err := p.Prepend(ctx)
	s.logResult("prepend", category, page, err)
	return page, err
}

// Refresh replaces a category with its first page
func (s *Service) Refresh(ctx context.Context, category domain.Category) (Page, error) {
	p, err := s.pager(category)
	if err != nil {
		return Page{}, err
	}
	page, err := p.Refresh(ctx)
	s.logResult("refresh", category, page, err)
	return page, err
}

// Retry repeats the last failed load of a category. A load that failed
// because the cache and cursor diverged is recovered with a refresh.
func (s *Service) Retry(ctx context.Context, category domain.Category) (Page, error) {
	p, err := s.pager(category)
	if err != nil {
		return Page{}, err
	}
	page, err := p.Retry(ctx)
	var loadErr *paging.LoadError
	if errors.As(err, &loadErr) && loadErr.NeedsRefresh() {
		s.logger.Warn("cache diverged from cursor, refreshing", "category", category)
		return s.Refresh(ctx, category)
	}
	s.logResult("retry", category, page, err)
	return page, err
}

// LoadPages loads a category until it holds at least n pages or the end is reached
func (s *Service) LoadPages(ctx context.Context, category domain.Category, n int, refresh bool) (Page, error) {
	var (
		page Page
		err  error
	)
	if refresh {
		page, err = s.Refresh(ctx, category)
	} else {
		page, err = s.Open(ctx, category)
	}
	if err != nil {
		return page, err
	}

	for loaded := PagesIn(page); loaded < n && !page.AppendEnd; loaded++ {
		page, err = s.LoadMore(ctx, category)
		if err != nil {
			return page, err
		}
	}
	return page, nil
}

// Snapshot returns the cached listing of a category without loading
func (s *Service) Snapshot(category domain.Category) (Page, error) {
	p, err := s.pager(category)
	if err != nil {
		return Page{}, err
	}
	return p.Snapshot()
}

// Upcoming returns the first upcoming movies for the home screen
func (s *Service) Upcoming(ctx context.Context, limit int) ([]domain.CatalogItem, error) {
	page, err := s.Open(ctx, domain.CategoryUpcomingMovies)
	items := page.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	if err != nil && len(items) > 0 {
		s.logger.Warn("serving cached upcoming movies", "error", err)
		return items, nil
	}
	return items, err
}

// Close tears down the session of a category. Loads still in flight are
// discarded and never written.
func (s *Service) Close(category domain.Category) {
	s.mu.Lock()
	p, ok := s.pagers[category]
	delete(s.pagers, category)
	s.mu.Unlock()

	if ok {
		p.Close()
		s.logger.Debug("closed paging session", "category", category)
	}
}

// CloseAll tears down every session
func (s *Service) CloseAll() {
	s.mu.Lock()
	pagers := s.pagers
	s.pagers = make(map[domain.Category]*pager)
	s.mu.Unlock()

	for _, p := range pagers {
		p.Close()
	}
}

// ClearCache drops every cached listing and details record. Every open
// session is reset and held until the store is wiped, so no load can write
// into the cleared cache.
func (s *Service) ClearCache() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wipe := s.store.InvalidateAll
	for _, p := range s.pagers {
		p, inner := p, wipe
		wipe = func() error { return p.ResetWhile(inner) }
	}
	if err := wipe(); err != nil {
		s.logger.Error("failed to clear cache", "error", err)
		return err
	}
	s.logger.Info("cleared catalog cache")
	return nil
}

// ClearCategory drops the cached listing of one category and resets its session
func (s *Service) ClearCategory(category domain.Category) error {
	if _, ok := category.Info(); !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCategory, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	invalidate := func() error { return s.store.InvalidateCategory(category) }
	var err error
	if p, ok := s.pagers[category]; ok {
		err = p.ResetWhile(invalidate)
	} else {
		err = invalidate()
	}
	if err != nil {
		s.logger.Error("failed to clear category", "category", category, "error", err)
		return err
	}
	s.logger.Info("cleared cached category", "category", category)
	return nil
}

func (s *Service) logResult(op string, category domain.Category, page Page, err error) {
	switch {
	case errors.Is(err, domain.ErrStaleLoad):
		s.logger.Debug("load discarded", "op", op, "category", category)
	case err != nil:
		s.logger.Error("load failed", "op", op, "category", category, "error", err)
	default:
		s.logger.Debug("load complete", "op", op, "category", category,
			"count", len(page.Items), "appendEnd", page.AppendEnd, "fromCache", page.FromCache)
	}
}

// PagesIn counts the distinct pages in a listing
func PagesIn(page Page) int {
	seen := make(map[int]struct{})
	for _, it := range page.Items {
		seen[it.Page] = struct{}{}
	}
	return len(seen)
}
