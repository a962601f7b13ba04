package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names. Catalog rows and remote keys live in one nested bucket per
// category (items/<category>, keys/<category>).
const (
	bucketItems    = "items"
	bucketKeys     = "keys"
	bucketDetails  = "details"
	bucketWishlist = "wishlist"
	bucketMeta     = "meta"
)

// cacheBuckets are dropped by InvalidateAll; the wishlist is user data and survives
var cacheBuckets = []string{bucketItems, bucketKeys, bucketDetails, bucketMeta}

// Store implements domain.Store using BoltDB.
// With no cache directory it runs memory-only with the same transactional semantics.
type Store struct {
	db *bolt.DB

	mu  sync.RWMutex // guards mem and serializes memory-only writes
	mem map[string]map[string][]byte
}

// NewStore opens the cache database under baseCacheDir, namespaced by API URL
// so that switching catalog backends never mixes listings.
func NewStore(baseCacheDir, apiURL string) (*Store, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &Store{mem: make(map[string]map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if apiURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(apiURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "cinemax.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{bucketItems, bucketKeys, bucketDetails, bucketWishlist, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Path returns the database file path ("" in memory-only mode)
func (s *Store) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Transactions ===

// update runs fn in a read-write transaction; nothing is applied if fn fails
func (s *Store) update(fn func(tx kvTx) error) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		tx := newMemTx(s.mem)
		if err := fn(tx); err != nil {
			return err
		}
		tx.commit()
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx, writable: true})
	})
}

// view runs fn in a read-only transaction
func (s *Store) view(fn func(tx kvTx) error) error {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return fn(newMemTx(s.mem))
	}
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

// === Generic helpers ===

func getJSON(tx kvTx, bucket, key string, dest interface{}) (bool, error) {
	data := tx.get(bucket, key)
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s/%s: %w", bucket, key, err)
	}
	return true, nil
}

func putJSON(tx kvTx, bucket, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return tx.put(bucket, key, data)
}

// idKey encodes an ID as 8 big-endian bytes so bolt iterates in numeric order
func idKey(id int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return string(b[:])
}

func nested(parent, child string) string {
	return parent + "/" + child
}
