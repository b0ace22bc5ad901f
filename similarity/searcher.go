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


package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/embed"
	"github.com/frapercan/FANTASIA/storage"
)

// Hit is a single ranked search result.
type Hit struct {
	// Accession identifies the matched sequence.
	Accession string
	// Score is the cosine similarity against the query.
	Score float32
}

// Searcher finds the nearest stored neighbours of a query embedding.
type Searcher struct {
	store    storage.EmbeddingStore
	computer *embed.Computer
	minScore float32
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithComputer enables SearchBySequence by providing the computer that
// embeds query sequences.
func WithComputer(computer *embed.Computer) Option {
	return func(s *Searcher) error {
		if computer == nil {
			return ErrComputerRequired
		}
		s.computer = computer
		return nil
	}
}

// WithMinScore drops hits scoring below score.
// Default is no threshold.
func WithMinScore(score float32) Option {
	return func(s *Searcher) error {
		s.minScore = score
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a searcher over the given store. Without a
// WithComputer option only accession queries are available.
func NewSearcher(store storage.EmbeddingStore, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Searcher{
		store:    store,
		minScore: float32(math.Inf(-1)),
		logger:   slog.Default().With("component", "similarity-searcher"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SearchByAccession ranks the stored neighbours of an already embedded
// sequence. The query record itself is excluded from the hits. Returns
// storage.ErrNotFound (wrapped) if no embedding exists for the key.
func (s *Searcher) SearchByAccession(ctx context.Context, accession string, typeID core.EmbeddingTypeID, limit int) ([]Hit, error) {
	record, err := s.store.Get(ctx, accession, typeID)
	if err != nil {
		s.logger.Error("error loading query embedding",
			"accession", accession, "type_id", int(typeID), "err", err)
		return nil, fmt.Errorf("query embedding %s (type %d): %w", accession, typeID, err)
	}
	return s.rank(ctx, record.Embedding, typeID, limit, accession)
}

// SearchBySequence embeds the given residues with the queried type's model
// and ranks the result against the store. Requires a computer; without one
// it fails with ErrComputerRequired.
func (s *Searcher) SearchBySequence(ctx context.Context, residues string, typeID core.EmbeddingTypeID, limit int) ([]Hit, error) {
	if s.computer == nil {
		return nil, ErrComputerRequired
	}
	if err := core.ValidateSequence(core.Sequence{Accession: "query", Residues: residues}); err != nil {
		return nil, err
	}

	records, err := s.computer.Compute(ctx, []core.TaskItem{{
		Sequence:        residues,
		Accession:       "query",
		EmbeddingTypeID: typeID,
	}})
	if err != nil {
		return nil, fmt.Errorf("embed query sequence: %w", err)
	}
	return s.rank(ctx, records[0].Embedding, typeID, limit, "")
}

// rank scans every stored record of the queried type, scores it against the
// query vector, and returns hits best-first. A limit of zero or less returns
// every hit above the score threshold.
func (s *Searcher) rank(ctx context.Context, query []float32, typeID core.EmbeddingTypeID, limit int, skip string) ([]Hit, error) {
	var hits []Hit
	err := s.store.ForEach(ctx, func(record *core.EmbeddingRecord) error {
		if record.EmbeddingTypeID != typeID {
			return nil
		}
		if skip != "" && record.Accession == skip {
			return nil
		}
		score := Cosine(query, record.Embedding)
		if score < s.minScore {
			return nil
		}
		hits = append(hits, Hit{Accession: record.Accession, Score: score})
		return nil
	})
	if err != nil {
		s.logger.Error("error scanning store for neighbours", "type_id", int(typeID), "err", err)
		return nil, err
	}

	// Sort by similarity descending, accession ascending on ties
	slices.SortFunc(hits, func(a, b Hit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.Accession, b.Accession)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	s.logger.Debug("similarity search complete", "type_id", int(typeID), "hits", len(hits))
	return hits, nil
}
