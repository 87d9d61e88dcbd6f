// Package bbolt implements ports.RecordCache using bbolt (embedded B+ tree).
// A single "records" bucket maps a definition file path to the normalized
// records parsed from it, tagged with the digest of the content they came
// from. Writes are transactional, so a crash mid-write cannot corrupt
// previously committed entries.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/b11005/blink-idl-diff/internal/domain/record"
	"github.com/b11005/blink-idl-diff/internal/ports"
)

var bucketRecords = []byte("records")

var _ ports.RecordCache = (*Store)(nil)

// Store implements ports.RecordCache backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path. Opening a
// database held by another process fails after one second instead of hanging.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the records stored for path when they were stored under the
// same digest.
func (s *Store) Lookup(path, digest string) (*record.FileRecords, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := tx.Bucket(bucketRecords).Get([]byte(path)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup %s: %w", path, err)
	}
	if data == nil {
		return nil, false, nil
	}

	e, ok, err := decodeEntry(data)
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup %s: %w", path, err)
	}
	if !ok || e.Digest != digest {
		return nil, false, nil
	}
	return e.Records, true, nil
}

// Store saves fr for path under digest, replacing any prior entry.
func (s *Store) Store(path, digest string, fr *record.FileRecords) error {
	data, err := encodeEntry(digest, fr)
	if err != nil {
		return fmt.Errorf("cache store %s: %w", path, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte(path), data)
	})
}

// Clear removes every entry. Idempotent.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRecords); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketRecords)
		return err
	})
}

// Stats counts the entries and the bytes their values occupy.
func (s *Store) Stats() (ports.CacheStats, error) {
	var st ports.CacheStats
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(_, v []byte) error {
			st.Entries++
			st.Bytes += int64(len(v))
			return nil
		})
	})
	return st, err
}
