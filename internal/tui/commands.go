package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinemax/internal/catalog"
	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/wishlist"
)

// Command factories for async operations

const (
	pageTimeout    = 30 * time.Second
	detailsTimeout = 20 * time.Second
	statusTimeout  = 3 * time.Second
)

type pageFunc func(ctx context.Context, category domain.Category) (catalog.Page, error)

func pageCmd(op PageOp, category domain.Category, fn pageFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pageTimeout)
		defer cancel()

		page, err := fn(ctx, category)
		return PageLoadedMsg{Category: category, Op: op, Page: page, Err: err}
	}
}

// OpenCategoryCmd performs the initial load of a category
func OpenCategoryCmd(svc *catalog.Service, category domain.Category) tea.Cmd {
	return pageCmd(OpOpen, category, svc.Open)
}

// LoadMoreCmd appends the next page
func LoadMoreCmd(svc *catalog.Service, category domain.Category) tea.Cmd {
	return pageCmd(OpAppend, category, svc.LoadMore)
}

// LoadPreviousCmd prepends the previous page
func LoadPreviousCmd(svc *catalog.Service, category domain.Category) tea.Cmd {
	return pageCmd(OpPrepend, category, svc.LoadPrevious)
}

// RefreshCmd replaces a category with its first page
func RefreshCmd(svc *catalog.Service, category domain.Category) tea.Cmd {
	return pageCmd(OpRefresh, category, svc.Refresh)
}

// RetryCmd repeats the last failed load
func RetryCmd(svc *catalog.Service, category domain.Category) tea.Cmd {
	return pageCmd(OpRetry, category, svc.Retry)
}

// CachedDetailsCmd emits the locally cached details of an item, if any,
// so the pane fills before the network answers
func CachedDetailsCmd(queries *catalog.Queries, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		switch item.MediaType {
		case domain.MediaTypeTV:
			if d, ok := queries.CachedTvShowDetails(item.ID); ok {
				return TvShowDetailsMsg{ID: item.ID, Details: d, Cached: true}
			}
		default:
			if d, ok := queries.CachedMovieDetails(item.ID); ok {
				return MovieDetailsMsg{ID: item.ID, Details: d, Cached: true}
			}
		}
		return nil
	}
}

// FetchDetailsCmd fetches fresh details. On failure the message may still
// carry the cached copy alongside the error.
func FetchDetailsCmd(svc *catalog.DetailsService, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailsTimeout)
		defer cancel()

		switch item.MediaType {
		case domain.MediaTypeTV:
			d, err := svc.TvShowDetails(ctx, item.ID, nil)
			return TvShowDetailsMsg{ID: item.ID, Details: d, Err: err}
		default:
			d, err := svc.MovieDetails(ctx, item.ID, nil)
			return MovieDetailsMsg{ID: item.ID, Details: d, Err: err}
		}
	}
}

// ToggleWishlistCmd flips the wishlist state of an item
func ToggleWishlistCmd(svc *wishlist.Service, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		on, err := svc.Toggle(item.MediaType, item.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating wishlist"}
		}
		return WishlistToggledMsg{MediaType: item.MediaType, ID: item.ID, Title: item.Title, Wishlisted: on}
	}
}

// ClearStatusCmd clears the status line after a delay unless a newer
// status replaced it
func ClearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
