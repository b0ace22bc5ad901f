// Copyright 2025 The FANTASIA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package badger implements the embedding store on BadgerDB.
//
// Each record lives under one key derived from its (accession, type id)
// pair, so existence checks and appends are single-key operations inside
// serializable transactions. The database directory lock makes a store
// single-process; concurrent writers within the process are serialized per
// key by transaction conflict detection.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/storage"
)

// EmbeddingRepository implements storage.EmbeddingStore for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.EmbeddingStore = (*EmbeddingRepository)(nil)

// Open opens an embedding store at path, creating the directory if needed.
// The repository owns the underlying database; Close releases it.
func Open(path string) (*EmbeddingRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newRepository(backend), nil
}

func newRepository(backend *Backend) *EmbeddingRepository {
	return &EmbeddingRepository{
		backend: backend,
		logger:  slog.Default().With("component", "embedding-store"),
	}
}

// Close closes the underlying database.
func (r *EmbeddingRepository) Close() error {
	return r.backend.Close()
}

// Store appends records, skipping keys that already exist. Each record is
// written in its own transaction so a failure loses only the records after
// it, never the ones already committed.
func (r *EmbeddingRepository) Store(ctx context.Context, records ...*core.EmbeddingRecord) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	stored := 0
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		if err := core.ValidateRecord(record); err != nil {
			return stored, err
		}
		wrote, err := r.storeOne(record)
		if err != nil {
			return stored, err
		}
		if wrote {
			stored++
		}
	}
	return stored, nil
}

// storeOne writes a single record. A commit conflict means another writer
// committed the same key first; the rerun sees the winner and skips.
func (r *EmbeddingRepository) storeOne(record *core.EmbeddingRecord) (bool, error) {
	wrote, err := r.tryStore(record)
	if errors.Is(err, badger.ErrConflict) {
		wrote, err = r.tryStore(record)
		if err != nil {
			return false, fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
		}
	}
	return wrote, err
}

func (r *EmbeddingRepository) tryStore(record *core.EmbeddingRecord) (wrote bool, err error) {
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeEmbeddingKey(record.Accession, record.EmbeddingTypeID)

		_, getErr := tx.Get(key)
		if getErr == nil {
			r.logger.Warn("embedding already exists, skipping",
				"accession", record.Accession,
				"type_id", int(record.EmbeddingTypeID))
			return nil
		}
		if !errors.Is(getErr, badger.ErrKeyNotFound) {
			return getErr
		}

		if setErr := tx.Set(key, storage.MarshalEmbeddingRecord(record)); setErr != nil {
			return setErr
		}
		wrote = true
		return tx.Commit()
	}, true)
	if err != nil {
		wrote = false
	}
	return wrote, err
}

// Has reports whether a record exists for the key.
func (r *EmbeddingRepository) Has(ctx context.Context, accession string, typeID core.EmbeddingTypeID) (bool, error) {
	var found bool
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, getErr := tx.Get(makeEmbeddingKey(accession, typeID))
		if getErr != nil {
			if errors.Is(getErr, badger.ErrKeyNotFound) {
				return nil
			}
			return getErr
		}
		found = true
		return nil
	}, false)
	return found, err
}

// Get retrieves a single record by key.
func (r *EmbeddingRepository) Get(ctx context.Context, accession string, typeID core.EmbeddingTypeID) (*core.EmbeddingRecord, error) {
	var result *core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, getErr := tx.Get(makeEmbeddingKey(accession, typeID))
		if getErr != nil {
			if errors.Is(getErr, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return getErr
		}
		return item.Value(func(val []byte) error {
			var uErr error
			result, uErr = storage.UnmarshalEmbeddingRecord(val)
			return uErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForEach visits every stored record in key order.
func (r *EmbeddingRepository) ForEach(ctx context.Context, fn func(record *core.EmbeddingRecord) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = embeddingKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.EmbeddingRecord
			err := iter.Item().Value(func(val []byte) error {
				var uErr error
				record, uErr = storage.UnmarshalEmbeddingRecord(val)
				return uErr
			})
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Count returns the number of stored records.
func (r *EmbeddingRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = embeddingKeyPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}
