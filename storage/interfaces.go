package storage

import (
	"context"

	"github.com/frapercan/FANTASIA/core"
)

// EmbeddingStore persists embedding records keyed by
// (accession, embedding type id).
// Implementations must be thread-safe and support concurrent access.
type EmbeddingStore interface {
	// Store appends records to the store. Records whose key already exists
	// are skipped with a warning and never overwritten. Returns the number
	// of records actually written; on error, records before the failing
	// one remain stored.
	Store(ctx context.Context, records ...*core.EmbeddingRecord) (stored int, err error)

	// Has reports whether a record exists for the key.
	Has(ctx context.Context, accession string, typeID core.EmbeddingTypeID) (bool, error)

	// Get retrieves a single record by key.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, accession string, typeID core.EmbeddingTypeID) (*core.EmbeddingRecord, error)

	// ForEach visits every stored record. Iteration stops at the first
	// error returned by fn, which is passed through unchanged.
	// Visit order is unspecified.
	ForEach(ctx context.Context, fn func(record *core.EmbeddingRecord) error) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close closes the store and releases resources.
	Close() error
}
