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
	"fmt"

	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/embed"
)

// Planner slices a filtered sequence list into dispatch batches, one batch
// set per requested embedding type. Dispatch batches control queue
// granularity only; the per-model inference batch size is applied later by
// the computer.
type Planner struct {
	registry *embed.Registry
}

// NewPlanner creates a planner backed by the given model registry. The
// registry supplies the model name that is denormalized into every task
// item.
func NewPlanner(registry *embed.Registry) (*Planner, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	return &Planner{registry: registry}, nil
}

// Plan partitions sequences into contiguous batches of at most batchSize
// items for each requested type. The same sequence list is sliced
// independently per type, so every sequence appears exactly once per type,
// in original order. Duplicate entries in types are planned once.
//
// Every requested type is resolved against the registry before any batch is
// built; an unknown type fails the whole plan.
func (p *Planner) Plan(sequences []core.Sequence, types []core.EmbeddingTypeID, batchSize int) (map[core.EmbeddingTypeID][][]core.TaskItem, error) {
	if batchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}

	names := make(map[core.EmbeddingTypeID]string, len(types))
	for _, typeID := range types {
		if _, ok := names[typeID]; ok {
			continue
		}
		model, err := p.registry.Model(typeID)
		if err != nil {
			return nil, fmt.Errorf("resolve model type %d: %w", typeID, err)
		}
		names[typeID] = model.Descriptor.Name
	}

	plan := make(map[core.EmbeddingTypeID][][]core.TaskItem, len(names))
	for _, typeID := range types {
		if _, done := plan[typeID]; done {
			continue
		}

		batches := make([][]core.TaskItem, 0, (len(sequences)+batchSize-1)/batchSize)
		for start := 0; start < len(sequences); start += batchSize {
			end := min(start+batchSize, len(sequences))
			items := make([]core.TaskItem, end-start)
			for i, seq := range sequences[start:end] {
				items[i] = core.TaskItem{
					Sequence:        seq.Residues,
					Accession:       seq.Accession,
					ModelName:       names[typeID],
					EmbeddingTypeID: typeID,
				}
			}
			batches = append(batches, items)
		}
		plan[typeID] = batches
	}

	return plan, nil
}
