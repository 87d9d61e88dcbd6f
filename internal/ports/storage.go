// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "github.com/b11005/blink-idl-diff/internal/domain/record"

// RecordCache persists the normalized contribution of each definition file so
// that unchanged files are not parsed again on the next run. The backing store
// (bbolt) is keyed by file path; an entry is only valid for the content digest
// it was stored with.
//
// A cache must never change the output of a run: a miss, a stale entry and a
// disabled cache all lead to a fresh parse.
type RecordCache interface {
	// Lookup returns the cached records for path if they were stored with the
	// same digest. Returns nil, false, nil on a miss.
	Lookup(path, digest string) (*record.FileRecords, bool, error)

	// Store saves records for path under digest, replacing any prior entry.
	Store(path, digest string, records *record.FileRecords) error

	// Close releases the underlying store.
	Close() error
}

// CacheStats describes the content of a RecordCache.
type CacheStats struct {
	Entries int
	Bytes   int64
}
