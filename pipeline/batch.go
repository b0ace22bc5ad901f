package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/embed"
	"github.com/frapercan/FANTASIA/storage"
)

// BatchProcessor computes and persists embeddings for dispatched batches.
// It is the handler the local dispatcher runs under retry; the processor
// itself never retries.
type BatchProcessor struct {
	computer *embed.Computer
	store    storage.EmbeddingStore
	logger   *slog.Logger
}

var _ Handler = (*BatchProcessor)(nil)

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(computer *embed.Computer, store storage.EmbeddingStore) (*BatchProcessor, error) {
	if computer == nil {
		return nil, ErrComputerRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &BatchProcessor{
		computer: computer,
		store:    store,
		logger:   slog.Default().With("component", "batch-processor"),
	}, nil
}

// Process computes embeddings for one batch and appends them to the store.
// Records already present for their (accession, embedding type) key are
// skipped by the store and do not count as stored. An empty batch flows
// through the computer, which warns and produces no records.
func (bp *BatchProcessor) Process(ctx context.Context, batch []core.TaskItem) error {
	records, err := bp.computer.Compute(ctx, batch)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	stored, err := bp.store.Store(ctx, records...)
	if err != nil {
		bp.logger.Error("error storing embeddings", "err", err)
		return fmt.Errorf("store batch (type %d): %w", batch[0].EmbeddingTypeID, err)
	}

	bp.logger.Debug("batch stored",
		"type", batch[0].EmbeddingTypeID,
		"computed", len(records),
		"stored", stored,
		"skipped", len(records)-stored)
	return nil
}
