package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mmcdole/cinemax/internal/domain"
)

func wishlistKey(mediaType domain.MediaType, id int) string {
	return string(mediaType) + ":" + idKey(id)
}

// AddToWishlist saves an entry. Re-adding keeps the original AddedAt.
func (s *Store) AddToWishlist(entry domain.WishlistEntry) error {
	if entry.MediaType != domain.MediaTypeMovie && entry.MediaType != domain.MediaTypeTV {
		return fmt.Errorf("invalid wishlist media type %q", entry.MediaType)
	}
	return s.update(func(tx kvTx) error {
		key := wishlistKey(entry.MediaType, entry.ID)
		var existing domain.WishlistEntry
		found, err := getJSON(tx, bucketWishlist, key, &existing)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		if entry.AddedAt.IsZero() {
			entry.AddedAt = time.Now()
		}
		return putJSON(tx, bucketWishlist, key, entry)
	})
}

// RemoveFromWishlist deletes an entry; removing an absent entry is not an error
func (s *Store) RemoveFromWishlist(mediaType domain.MediaType, id int) error {
	return s.update(func(tx kvTx) error {
		return tx.delete(bucketWishlist, wishlistKey(mediaType, id))
	})
}

func (s *Store) IsWishlisted(mediaType domain.MediaType, id int) bool {
	var found bool
	_ = s.view(func(tx kvTx) error {
		found = tx.get(bucketWishlist, wishlistKey(mediaType, id)) != nil
		return nil
	})
	return found
}

// Wishlist returns the entries of one media type, most recently added first
func (s *Store) Wishlist(mediaType domain.MediaType) ([]domain.WishlistEntry, error) {
	var entries []domain.WishlistEntry
	err := s.view(func(tx kvTx) error {
		return tx.forEach(bucketWishlist, func(_ string, v []byte) error {
			var entry domain.WishlistEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("corrupt wishlist entry: %w", err)
			}
			if entry.MediaType == mediaType {
				entries = append(entries, entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries, nil
}

var _ domain.Store = (*Store)(nil)
