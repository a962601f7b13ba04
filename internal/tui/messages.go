package tui

import (
	"github.com/mmcdole/cinemax/internal/catalog"
	"github.com/mmcdole/cinemax/internal/domain"
)

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageOp names the paging operation that produced a page
type PageOp string

const (
	OpOpen    PageOp = "open"
	OpAppend  PageOp = "append"
	OpPrepend PageOp = "prepend"
	OpRefresh PageOp = "refresh"
	OpRetry   PageOp = "retry"
)

// PageLoadedMsg carries the window of a category after a paging operation.
// Err is set on failure; Page still holds whatever is cached.
type PageLoadedMsg struct {
	Category domain.Category
	Op       PageOp
	Page     catalog.Page
	Err      error
}

// MovieDetailsMsg carries movie details. Cached marks the local copy sent
// before the fetch completes.
type MovieDetailsMsg struct {
	ID      int
	Details *domain.MovieDetails
	Cached  bool
	Err     error
}

// TvShowDetailsMsg carries TV show details
type TvShowDetailsMsg struct {
	ID      int
	Details *domain.TvShowDetails
	Cached  bool
	Err     error
}

// WishlistToggledMsg reports the new wishlist state of an item
type WishlistToggledMsg struct {
	MediaType  domain.MediaType
	ID         int
	Title      string
	Wishlisted bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	Seq int
}
