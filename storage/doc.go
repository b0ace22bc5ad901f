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


// Package storage provides the storage abstraction layer for embedding
// records.
//
// This package defines the EmbeddingStore interface that decouples the
// pipeline from the storage implementation, plus the serialization helpers
// shared by backends. The production backend lives in storage/badger.
//
// # Append-only semantics
//
// A store is keyed by (accession, embedding type id). Writes never
// overwrite: storing a record whose key already exists logs a warning and
// skips it, which makes pipeline runs idempotent and lets interrupted runs
// be re-executed against the same store.
//
// # Thread Safety
//
// All store implementations must be thread-safe; the pipeline writes from
// multiple workers concurrently.
//
// # Context Support
//
// All store methods accept context.Context for cancellation. Pass
// context.Background() for operations without specific timeout
// requirements.
package storage
