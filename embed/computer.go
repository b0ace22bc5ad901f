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


package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frapercan/FANTASIA/core"
)

// ErrMixedBatch reports a batch whose task items carry more than one
// embedding type id. Batches are planned per type; a mixed batch means the
// planner or dispatcher is broken, so the error is fatal rather than
// recoverable.
var ErrMixedBatch = errors.New("batch mixes embedding types")

// Computer turns batches of task items into embedding records by resolving
// the batch's model from a registry and running its embedding task.
type Computer struct {
	registry *Registry
	logger   *slog.Logger
}

// NewComputer creates a Computer backed by the given registry.
func NewComputer(registry *Registry) *Computer {
	return &Computer{
		registry: registry,
		logger:   slog.Default().With("component", "embed-computer"),
	}
}

// Compute embeds one batch of task items and returns one record per item,
// in input order, with each item's accession and type id re-attached.
//
// An empty batch is logged and produces no records and no error. A batch
// mixing embedding type ids fails with ErrMixedBatch before any model is
// resolved. Inference failures are returned as-is; retry policy belongs to
// the caller.
func (c *Computer) Compute(ctx context.Context, batch []core.TaskItem) ([]*core.EmbeddingRecord, error) {
	if len(batch) == 0 {
		c.logger.Warn("received empty task batch, nothing to embed")
		return nil, nil
	}

	typeID := batch[0].EmbeddingTypeID
	for _, item := range batch[1:] {
		if item.EmbeddingTypeID != typeID {
			return nil, fmt.Errorf("%w: %d and %d", ErrMixedBatch, typeID, item.EmbeddingTypeID)
		}
	}

	model, err := c.registry.Model(typeID)
	if err != nil {
		return nil, err
	}

	inputs := make([]string, len(batch))
	for i, item := range batch {
		inputs[i] = model.Shaper.Shape(item.Sequence)
	}

	c.logger.Debug("embedding batch",
		"type_id", int(typeID),
		"model", model.Descriptor.Name,
		"sequences", len(batch))

	vectors, err := RunTask(ctx, model.Client, inputs, model.Descriptor.BatchSize)
	if err != nil {
		c.logger.Error("embedding batch failed",
			"type_id", int(typeID),
			"model", model.Descriptor.Name,
			"sequences", len(batch),
			"err", err)
		return nil, fmt.Errorf("embed batch (type %d): %w", typeID, err)
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%w: %d vectors for %d items", ErrCountMismatch, len(vectors), len(batch))
	}

	records := make([]*core.EmbeddingRecord, len(batch))
	for i, vec := range vectors {
		records[i] = &core.EmbeddingRecord{
			Accession:       batch[i].Accession,
			EmbeddingTypeID: typeID,
			Embedding:       vec,
			Shape:           []int{len(vec)},
		}
	}
	return records, nil
}
