package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/cinemax/internal/domain"
)

// ItemSource provides the cached catalog rows to search
type ItemSource interface {
	AllCachedItems() ([]domain.CatalogItem, error)
}

// RemoteSearcher queries the catalog API
type RemoteSearcher interface {
	Search(ctx context.Context, query string, page int) ([]domain.SearchResult, bool, error)
}

// Result is a local search hit
type Result struct {
	Item     domain.CatalogItem
	Distance int // lower = better
}

// Service searches cached listings locally and the catalog API remotely
type Service struct {
	items  ItemSource
	remote RemoteSearcher
	logger *slog.Logger
}

// NewService creates a new search service
func NewService(items ItemSource, remote RemoteSearcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{items: items, remote: remote, logger: logger}
}

// Local fuzzy-matches the query against every cached title. A movie listed
// in several categories is reported once. An empty query returns every
// item that passes the filter.
func (s *Service) Local(query string, filter *Filter) ([]Result, error) {
	all, err := s.items.AllCachedItems()
	if err != nil {
		return nil, err
	}
	items := dedupe(all)

	var results []Result
	query = strings.TrimSpace(query)
	if query == "" {
		for _, item := range items {
			if filter.Match(item) {
				results = append(results, Result{Item: item})
			}
		}
		s.logger.Debug("local filter", "filter", filter.String(), "results", len(results))
		return results, nil
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	ranks := fuzzy.RankFindFold(query, titles)
	sort.Sort(ranks)

	for _, rank := range ranks {
		item := items[rank.OriginalIndex]
		if filter.Match(item) {
			results = append(results, Result{Item: item, Distance: rank.Distance})
		}
	}

	// Equal distances: prefer shorter titles, then popularity
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if len(a.Item.Title) != len(b.Item.Title) {
			return len(a.Item.Title) < len(b.Item.Title)
		}
		return a.Item.Popularity > b.Item.Popularity
	})

	s.logger.Debug("local search", "query", query, "filter", filter.String(), "results", len(results))
	return results, nil
}

// Remote searches the catalog API
func (s *Service) Remote(ctx context.Context, query string, page int) ([]domain.SearchResult, bool, error) {
	if s.remote == nil {
		return nil, false, nil
	}
	results, hasNext, err := s.remote.Search(ctx, query, page)
	if err != nil {
		s.logger.Error("remote search failed", "query", query, "error", err)
		return nil, false, err
	}
	s.logger.Debug("remote search", "query", query, "results", len(results))
	return results, hasNext, nil
}

type itemKey struct {
	mediaType domain.MediaType
	id        int
}

func dedupe(items []domain.CatalogItem) []domain.CatalogItem {
	seen := make(map[itemKey]bool, len(items))
	out := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		k := itemKey{item.MediaType, item.ID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}
