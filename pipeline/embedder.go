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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frapercan/FANTASIA/cluster"
	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/fasta"
)

// Config holds the enqueue-stage settings of a pipeline run.
type Config struct {
	// InputPath is the sequence file to read.
	InputPath string

	// Types lists the embedding types to compute, in publish order.
	Types []core.EmbeddingTypeID

	// QueueBatchSize is the dispatch batch granularity: how many sequences
	// are published per batch. Distinct from the per-model inference batch
	// size.
	QueueBatchSize int

	// LengthFilter drops sequences longer than this many residues.
	// Zero disables the filter.
	LengthFilter int

	// RedundancyIdentity enables redundancy clustering of the input at the
	// given similarity threshold before reading. Zero disables clustering.
	RedundancyIdentity float64

	// RedundancyFile is the path where the clustering tool writes the
	// reduced sequence file. Required when RedundancyIdentity is set.
	RedundancyFile string

	// CollapseExact drops sequences whose residues are identical to an
	// earlier sequence, keeping the first accession.
	CollapseExact bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		QueueBatchSize: 64,
	}
}

// SequenceEmbedder drives the enqueue stage: redundancy clustering, reading,
// filtering, batching, and publishing to the dispatcher.
type SequenceEmbedder struct {
	config     *Config
	planner    *Planner
	dispatcher Dispatcher
	clusterer  cluster.Clusterer
	logger     *slog.Logger
}

// EmbedderOption configures a SequenceEmbedder.
type EmbedderOption func(*SequenceEmbedder) error

// WithClusterer sets the redundancy-clustering tool. When unset and
// clustering is configured, cd-hit is located on the process search path at
// enqueue time.
func WithClusterer(clusterer cluster.Clusterer) EmbedderOption {
	return func(e *SequenceEmbedder) error {
		e.clusterer = clusterer
		return nil
	}
}

// WithEmbedderLogger sets a custom logger.
// Default is slog.Default().
func WithEmbedderLogger(logger *slog.Logger) EmbedderOption {
	return func(e *SequenceEmbedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewSequenceEmbedder creates the pipeline orchestrator. A nil config uses
// DefaultConfig; InputPath and at least one type are required either way.
func NewSequenceEmbedder(config *Config, planner *Planner, dispatcher Dispatcher, opts ...EmbedderOption) (*SequenceEmbedder, error) {
	if planner == nil {
		return nil, ErrPlannerRequired
	}
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.InputPath == "" {
		return nil, ErrInputRequired
	}
	if len(config.Types) == 0 {
		return nil, ErrTypesRequired
	}

	normalized := *config
	normalized.Types = dedupTypes(config.Types)
	if normalized.QueueBatchSize < 1 {
		normalized.QueueBatchSize = DefaultConfig().QueueBatchSize
	}

	e := &SequenceEmbedder{
		config:     &normalized,
		planner:    planner,
		dispatcher: dispatcher,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			return nil, optErr
		}
	}

	return e, nil
}

// Enqueue reads the input, applies the configured filters, plans batches,
// and publishes every batch in type order. It returns the number of
// sequences that entered planning and the number of batches published. A
// publish failure stops the enqueue immediately.
func (e *SequenceEmbedder) Enqueue(ctx context.Context) (sequences, batches int, err error) {
	inputPath := e.config.InputPath

	if e.config.RedundancyIdentity > 0 {
		clusterer := e.clusterer
		if clusterer == nil {
			// Locate the binary before touching the input.
			clusterer, err = cluster.NewCDHit()
			if err != nil {
				return 0, 0, err
			}
		}

		reduced, cerr := clusterer.Cluster(ctx, inputPath, e.config.RedundancyFile, e.config.RedundancyIdentity)
		if cerr != nil {
			return 0, 0, fmt.Errorf("redundancy clustering: %w", cerr)
		}
		inputPath = reduced
	}

	seqs, err := e.readFiltered(ctx, inputPath)
	if err != nil {
		return 0, 0, err
	}

	if e.config.CollapseExact {
		seqs = collapseExactDuplicates(seqs, e.logger)
	}

	plan, err := e.planner.Plan(seqs, e.config.Types, e.config.QueueBatchSize)
	if err != nil {
		return 0, 0, err
	}

	for _, typeID := range e.config.Types {
		for _, batch := range plan[typeID] {
			if perr := e.dispatcher.Publish(ctx, typeID, batch); perr != nil {
				return len(seqs), batches, fmt.Errorf("publish batch (type %d): %w", typeID, perr)
			}
			batches++
			e.logger.Info("published batch", "sequences", len(batch), "type", typeID)
		}
	}

	return len(seqs), batches, nil
}

// Run enqueues the input and waits for every published batch to finish.
func (e *SequenceEmbedder) Run(ctx context.Context) error {
	start := time.Now()

	sequences, batches, err := e.Enqueue(ctx)
	if err != nil {
		return err
	}

	if err := e.dispatcher.Wait(ctx); err != nil {
		return err
	}

	e.logger.Info("run complete",
		"sequences", sequences,
		"batches", batches,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// readFiltered reads sequences from path in file order, dropping invalid
// records with a warning and records longer than the configured length
// filter.
func (e *SequenceEmbedder) readFiltered(ctx context.Context, path string) ([]core.Sequence, error) {
	var (
		seqs    []core.Sequence
		skipped int
		invalid int
	)

	err := fasta.ReadFunc(ctx, path, func(seq core.Sequence) error {
		if verr := core.ValidateSequence(seq); verr != nil {
			invalid++
			e.logger.Warn("skipping invalid sequence", "accession", seq.Accession, "err", verr)
			return nil
		}
		if e.config.LengthFilter > 0 && seq.Length() > e.config.LengthFilter {
			skipped++
			return nil
		}
		seqs = append(seqs, seq)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("sequences read", "kept", len(seqs), "overLength", skipped, "invalid", invalid)
	return seqs, nil
}

// collapseExactDuplicates keeps the first sequence of every identical
// residue string. The checksum narrows candidates; residues are compared
// before a record is dropped, so checksum collisions cannot lose sequences.
func collapseExactDuplicates(seqs []core.Sequence, logger *slog.Logger) []core.Sequence {
	seen := make(map[uint64][]string, len(seqs))
	out := make([]core.Sequence, 0, len(seqs))
	collapsed := 0

	for _, seq := range seqs {
		sum := core.Checksum(seq.Residues)
		dup := false
		for _, prior := range seen[sum] {
			if prior == seq.Residues {
				dup = true
				break
			}
		}
		if dup {
			collapsed++
			continue
		}
		seen[sum] = append(seen[sum], seq.Residues)
		out = append(out, seq)
	}

	if collapsed > 0 {
		logger.Info("collapsed exact duplicates", "collapsed", collapsed, "kept", len(out))
	}
	return out
}

func dedupTypes(types []core.EmbeddingTypeID) []core.EmbeddingTypeID {
	seen := make(map[core.EmbeddingTypeID]struct{}, len(types))
	out := make([]core.EmbeddingTypeID, 0, len(types))
	for _, typeID := range types {
		if _, ok := seen[typeID]; ok {
			continue
		}
		seen[typeID] = struct{}{}
		out = append(out, typeID)
	}
	return out
}
