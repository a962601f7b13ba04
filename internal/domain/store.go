package domain

import "time"

// Store handles the local cache (BoltDB + memory).
// Catalog rows and remote keys are partitioned by category so that one
// listing can be replaced without touching the others.
type Store interface {
	// === Catalog (paged listings) ===
	Items(category Category) ([]CatalogItem, error)
	ItemCount(category Category) int
	RemoteKey(category Category, id int) (*RemoteKey, error)

	// ReplaceAll deletes every item and key of the category, then inserts the
	// given ones, in a single transaction.
	ReplaceAll(category Category, items []CatalogItem, keys []RemoteKey) error

	// Upsert inserts or overwrites items and keys in a single transaction.
	Upsert(category Category, items []CatalogItem, keys []RemoteKey) error

	// LastRefresh returns when the category was last replaced (zero if never)
	LastRefresh(category Category) time.Time

	// === Details ===
	MovieDetails(id int) (*MovieDetails, bool)
	SaveMovieDetails(details *MovieDetails) error
	TvShowDetails(id int) (*TvShowDetails, bool)
	SaveTvShowDetails(details *TvShowDetails) error

	// === Wishlist ===
	AddToWishlist(entry WishlistEntry) error
	RemoveFromWishlist(mediaType MediaType, id int) error
	IsWishlisted(mediaType MediaType, id int) bool
	Wishlist(mediaType MediaType) ([]WishlistEntry, error)

	// === Invalidation ===
	InvalidateCategory(category Category) error
	InvalidateAll() error // keeps the wishlist

	Close() error
}
