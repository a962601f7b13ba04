package store

import (
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// kvTx is the slice of a transaction the store needs. Bucket names are
// slash-separated paths ("items/popular_movies").
type kvTx interface {
	get(bucket, key string) []byte
	put(bucket, key string, value []byte) error
	delete(bucket, key string) error
	dropBucket(bucket string) error
	forEach(bucket string, fn func(key string, value []byte) error) error
}

// === BoltDB ===

type boltTx struct {
	tx       *bolt.Tx
	writable bool
}

// bucket resolves a nested path, creating missing buckets in writable transactions
func (t *boltTx) bucket(path string) (*bolt.Bucket, error) {
	parts := strings.Split(path, "/")
	var b *bolt.Bucket
	for i, name := range parts {
		var next *bolt.Bucket
		if i == 0 {
			next = t.tx.Bucket([]byte(name))
		} else {
			next = b.Bucket([]byte(name))
		}
		if next == nil {
			if !t.writable {
				return nil, nil
			}
			var err error
			if i == 0 {
				next, err = t.tx.CreateBucketIfNotExists([]byte(name))
			} else {
				next, err = b.CreateBucketIfNotExists([]byte(name))
			}
			if err != nil {
				return nil, err
			}
		}
		b = next
	}
	return b, nil
}

func (t *boltTx) get(bucket, key string) []byte {
	b, err := t.bucket(bucket)
	if err != nil || b == nil {
		return nil
	}
	v := b.Get([]byte(key))
	if v == nil {
		return nil
	}
	// Values are only valid for the life of the transaction
	data := make([]byte, len(v))
	copy(data, v)
	return data
}

func (t *boltTx) put(bucket, key string, value []byte) error {
	b, err := t.bucket(bucket)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), value)
}

func (t *boltTx) delete(bucket, key string) error {
	b, err := t.bucket(bucket)
	if err != nil || b == nil {
		return err
	}
	return b.Delete([]byte(key))
}

func (t *boltTx) dropBucket(bucket string) error {
	var err error
	if i := strings.LastIndex(bucket, "/"); i >= 0 {
		var parent *bolt.Bucket
		parent, err = t.bucket(bucket[:i])
		if err != nil || parent == nil {
			return err
		}
		err = parent.DeleteBucket([]byte(bucket[i+1:]))
	} else {
		err = t.tx.DeleteBucket([]byte(bucket))
		if err == nil {
			_, err = t.tx.CreateBucket([]byte(bucket))
		}
	}
	if errors.Is(err, bolt.ErrBucketNotFound) {
		return nil
	}
	return err
}

func (t *boltTx) forEach(bucket string, fn func(key string, value []byte) error) error {
	b, err := t.bucket(bucket)
	if err != nil || b == nil {
		return err
	}
	return b.ForEach(func(k, v []byte) error {
		if v == nil {
			return nil // nested bucket
		}
		return fn(string(k), v)
	})
}

// === Memory-only ===

// memTx stages writes copy-on-write and applies them on commit, so a failed
// transaction leaves the base map untouched.
type memTx struct {
	base    map[string]map[string][]byte
	touched map[string]map[string][]byte
	dropped []string
}

func newMemTx(base map[string]map[string][]byte) *memTx {
	return &memTx{base: base, touched: make(map[string]map[string][]byte)}
}

func (t *memTx) isDropped(bucket string) bool {
	for _, d := range t.dropped {
		if bucket == d || strings.HasPrefix(bucket, d+"/") {
			return true
		}
	}
	return false
}

// read returns the current view of a bucket without copying
func (t *memTx) read(bucket string) map[string][]byte {
	if b, ok := t.touched[bucket]; ok {
		return b
	}
	if t.isDropped(bucket) {
		return nil
	}
	return t.base[bucket]
}

// write returns a private copy of a bucket for modification
func (t *memTx) write(bucket string) map[string][]byte {
	if b, ok := t.touched[bucket]; ok {
		return b
	}
	cp := make(map[string][]byte)
	if !t.isDropped(bucket) {
		for k, v := range t.base[bucket] {
			cp[k] = v
		}
	}
	t.touched[bucket] = cp
	return cp
}

func (t *memTx) get(bucket, key string) []byte {
	return t.read(bucket)[key]
}

func (t *memTx) put(bucket, key string, value []byte) error {
	t.write(bucket)[key] = value
	return nil
}

func (t *memTx) delete(bucket, key string) error {
	delete(t.write(bucket), key)
	return nil
}

func (t *memTx) dropBucket(bucket string) error {
	for name := range t.touched {
		if name == bucket || strings.HasPrefix(name, bucket+"/") {
			delete(t.touched, name)
		}
	}
	t.dropped = append(t.dropped, bucket)
	return nil
}

func (t *memTx) forEach(bucket string, fn func(key string, value []byte) error) error {
	for k, v := range t.read(bucket) {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (t *memTx) commit() {
	for _, d := range t.dropped {
		for name := range t.base {
			if name == d || strings.HasPrefix(name, d+"/") {
				delete(t.base, name)
			}
		}
	}
	for name, b := range t.touched {
		t.base[name] = b
	}
}
