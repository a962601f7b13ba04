package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mmcdole/cinemax/internal/domain"
)

func itemsBucket(category domain.Category) string { return nested(bucketItems, string(category)) }
func keysBucket(category domain.Category) string  { return nested(bucketKeys, string(category)) }
func refreshKey(category domain.Category) string  { return "refresh:" + string(category) }

// Items returns the cached listing of a category in page/position order
func (s *Store) Items(category domain.Category) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem
	err := s.view(func(tx kvTx) error {
		return tx.forEach(itemsBucket(category), func(_ string, v []byte) error {
			var item domain.CatalogItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("corrupt catalog item in %s: %w", category, err)
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Page != items[j].Page {
			return items[i].Page < items[j].Page
		}
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// ItemCount returns the number of cached rows in a category
func (s *Store) ItemCount(category domain.Category) int {
	count := 0
	_ = s.view(func(tx kvTx) error {
		return tx.forEach(itemsBucket(category), func(string, []byte) error {
			count++
			return nil
		})
	})
	return count
}

// RemoteKey returns the remote key for an item of a category, or nil if absent
func (s *Store) RemoteKey(category domain.Category, id int) (*domain.RemoteKey, error) {
	var key domain.RemoteKey
	var found bool
	err := s.view(func(tx kvTx) error {
		var err error
		found, err = getJSON(tx, keysBucket(category), idKey(id), &key)
		return err
	})
	if err != nil || !found {
		return nil, err
	}
	return &key, nil
}

// ReplaceAll clears the category and inserts the given page in one transaction.
// The refresh timestamp is written in the same transaction.
func (s *Store) ReplaceAll(category domain.Category, items []domain.CatalogItem, keys []domain.RemoteKey) error {
	return s.update(func(tx kvTx) error {
		if err := tx.dropBucket(itemsBucket(category)); err != nil {
			return err
		}
		if err := tx.dropBucket(keysBucket(category)); err != nil {
			return err
		}
		if err := putPage(tx, category, items, keys); err != nil {
			return err
		}
		return putJSON(tx, bucketMeta, refreshKey(category), time.Now())
	})
}

// Upsert inserts or overwrites items and keys of a category in one transaction
func (s *Store) Upsert(category domain.Category, items []domain.CatalogItem, keys []domain.RemoteKey) error {
	return s.update(func(tx kvTx) error {
		return putPage(tx, category, items, keys)
	})
}

func putPage(tx kvTx, category domain.Category, items []domain.CatalogItem, keys []domain.RemoteKey) error {
	for _, item := range items {
		item.Category = category
		if err := putJSON(tx, itemsBucket(category), idKey(item.ID), item); err != nil {
			return err
		}
	}
	for _, key := range keys {
		key.Category = category
		if err := putJSON(tx, keysBucket(category), idKey(key.ID), key); err != nil {
			return err
		}
	}
	return nil
}

// LastRefresh returns when the category was last replaced (zero if never)
func (s *Store) LastRefresh(category domain.Category) time.Time {
	var t time.Time
	_ = s.view(func(tx kvTx) error {
		_, err := getJSON(tx, bucketMeta, refreshKey(category), &t)
		return err
	})
	return t
}

// InvalidateCategory drops the cached listing of one category
func (s *Store) InvalidateCategory(category domain.Category) error {
	return s.update(func(tx kvTx) error {
		if err := tx.dropBucket(itemsBucket(category)); err != nil {
			return err
		}
		if err := tx.dropBucket(keysBucket(category)); err != nil {
			return err
		}
		return tx.delete(bucketMeta, refreshKey(category))
	})
}

// InvalidateAll drops every cached listing and details record. The wishlist is kept.
func (s *Store) InvalidateAll() error {
	return s.update(func(tx kvTx) error {
		for _, bucket := range cacheBuckets {
			if err := tx.dropBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
