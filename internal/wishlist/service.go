package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/cinemax/internal/domain"
)

// DetailsLookup resolves wishlist ids to details, preferring the cache
type DetailsLookup interface {
	MoviesByIDs(ctx context.Context, ids []int) ([]*domain.MovieDetails, error)
	TvShowsByIDs(ctx context.Context, ids []int) ([]*domain.TvShowDetails, error)
}

// Service manages the user's saved movies and shows.
type Service struct {
	store   domain.Store
	details DetailsLookup
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new wishlist service.
func NewService(store domain.Store, details DetailsLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, details: details, logger: logger, now: time.Now}
}

func (s *Service) AddMovie(id int) error     { return s.add(domain.MediaTypeMovie, id) }
func (s *Service) RemoveMovie(id int) error  { return s.remove(domain.MediaTypeMovie, id) }
func (s *Service) AddTvShow(id int) error    { return s.add(domain.MediaTypeTV, id) }
func (s *Service) RemoveTvShow(id int) error { return s.remove(domain.MediaTypeTV, id) }

// Add saves an item of either media type
func (s *Service) Add(mediaType domain.MediaType, id int) error { return s.add(mediaType, id) }

// Remove drops an item of either media type
func (s *Service) Remove(mediaType domain.MediaType, id int) error { return s.remove(mediaType, id) }

// Toggle flips the wishlist state of an item and returns the new state
func (s *Service) Toggle(mediaType domain.MediaType, id int) (bool, error) {
	if s.store.IsWishlisted(mediaType, id) {
		return false, s.remove(mediaType, id)
	}
	return true, s.add(mediaType, id)
}

func (s *Service) IsWishlisted(mediaType domain.MediaType, id int) bool {
	return s.store.IsWishlisted(mediaType, id)
}

// Entries returns the raw wishlist of one media type, newest first
func (s *Service) Entries(mediaType domain.MediaType) ([]domain.WishlistEntry, error) {
	return s.store.Wishlist(mediaType)
}

// Movies returns the details of every wishlisted movie, newest first.
// Entries whose details cannot be resolved are skipped; the error reports them.
func (s *Service) Movies(ctx context.Context) ([]*domain.MovieDetails, error) {
	entries, err := s.store.Wishlist(domain.MediaTypeMovie)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return s.details.MoviesByIDs(ctx, entryIDs(entries))
}

// TvShows returns the details of every wishlisted show, newest first
func (s *Service) TvShows(ctx context.Context) ([]*domain.TvShowDetails, error) {
	entries, err := s.store.Wishlist(domain.MediaTypeTV)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return s.details.TvShowsByIDs(ctx, entryIDs(entries))
}

func (s *Service) add(mediaType domain.MediaType, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid %s id %d", mediaType, id)
	}
	entry := domain.WishlistEntry{ID: id, MediaType: mediaType, AddedAt: s.now()}
	if err := s.store.AddToWishlist(entry); err != nil {
		s.logger.Error("failed to add to wishlist", "type", mediaType, "id", id, "error", err)
		return err
	}
	s.logger.Info("added to wishlist", "type", mediaType, "id", id)
	return nil
}

func (s *Service) remove(mediaType domain.MediaType, id int) error {
	if err := s.store.RemoveFromWishlist(mediaType, id); err != nil {
		s.logger.Error("failed to remove from wishlist", "type", mediaType, "id", id, "error", err)
		return err
	}
	s.logger.Info("removed from wishlist", "type", mediaType, "id", id)
	return nil
}

func entryIDs(entries []domain.WishlistEntry) []int {
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
