package api

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/boltdb/bolt"
	"github.com/rotisserie/eris"
)

const responseBucket = "RESPONSES"

// BoltCache is a CacheAdaptor persisted to a bolt database, so cached responses outlive the process.
type BoltCache struct {
	db  *bolt.DB
	now func() time.Time
}

func OpenBoltCache(path string) (*BoltCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, eris.Wrapf(err, "cannot open response cache %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(responseBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "cannot create response cache bucket")
	}

	return &BoltCache{db: db, now: time.Now}, nil
}

func (b *BoltCache) Close() error {
	return b.db.Close()
}

// hashKey keeps cookie values that are part of the cache key off disk.
func hashKey(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}

func (b *BoltCache) Get(_ context.Context, key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bolt.Tx) error {
		entry := tx.Bucket([]byte(responseBucket)).Get(hashKey(key))
		if len(entry) < 8 {
			return errCacheMiss
		}

		// 8 byte big endian expiry in unix nanoseconds, then the value
		expiresAt := int64(binary.BigEndian.Uint64(entry[:8]))
		if b.now().UnixNano() >= expiresAt {
			return errCacheMiss
		}

		value = string(entry[8:])
		return nil
	})
	return value, err
}

func (b *BoltCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	entry := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(entry[:8], uint64(b.now().Add(ttl).UnixNano()))
	copy(entry[8:], value)

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(responseBucket)).Put(hashKey(key), entry)
	})
}

// Prune drops expired entries.
func (b *BoltCache) Prune() error {
	now := b.now().UnixNano()
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		var expired [][]byte
		err := bucket.ForEach(func(key, entry []byte) error {
			if len(entry) < 8 || int64(binary.BigEndian.Uint64(entry[:8])) <= now {
				expired = append(expired, append([]byte(nil), key...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, key := range expired {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
