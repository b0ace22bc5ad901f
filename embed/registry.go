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
	"errors"
	"fmt"
	"sort"

	"github.com/frapercan/FANTASIA/core"
)

var (
	// ErrUnknownType reports an embedding type id with no registered model.
	ErrUnknownType = errors.New("unknown embedding type")

	// ErrDuplicateType reports a second registration for the same type id.
	ErrDuplicateType = errors.New("embedding type already registered")
)

// Descriptor identifies a model instance and its inference batch size.
type Descriptor struct {
	// TypeID is the numeric embedding type this model serves.
	TypeID core.EmbeddingTypeID

	// Name is the model checkpoint identifier sent to the inference
	// service. Empty falls back to the catalog default for the family.
	Name string

	// BatchSize is the number of sequences per inference request.
	BatchSize int
}

// Model binds a descriptor to the client and shaper that serve it.
// A Model is built once at startup and read-only afterwards.
type Model struct {
	Descriptor Descriptor
	Client     Client
	Shaper     Shaper
}

// NewModel builds a Model for a built-in family, filling the checkpoint
// name and shaper from the catalog. The type id must be in the catalog;
// a new family is wired in by constructing the Model literal directly
// with an explicit Shaper.
func NewModel(desc Descriptor, client Client) (*Model, error) {
	if client == nil {
		return nil, fmt.Errorf("model for type %d: nil client", desc.TypeID)
	}
	if desc.BatchSize <= 0 {
		return nil, fmt.Errorf("model for type %d: batch size must be positive, got %d", desc.TypeID, desc.BatchSize)
	}
	shaper, ok := FamilyShaper(desc.TypeID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, desc.TypeID)
	}
	if desc.Name == "" {
		desc.Name = DefaultModelName(desc.TypeID)
	}
	return &Model{Descriptor: desc, Client: client, Shaper: shaper}, nil
}

// Registry is the lookup table from embedding type id to model instance.
// It is populated during startup and read-only while the pipeline runs.
type Registry struct {
	models map[core.EmbeddingTypeID]*Model
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[core.EmbeddingTypeID]*Model)}
}

// Register adds a model to the registry. Registering the same type id
// twice is a configuration error.
func (r *Registry) Register(m *Model) error {
	if m == nil {
		return errors.New("register: nil model")
	}
	if m.Client == nil {
		return fmt.Errorf("register type %d: nil client", m.Descriptor.TypeID)
	}
	if m.Shaper == nil {
		return fmt.Errorf("register type %d: nil shaper", m.Descriptor.TypeID)
	}
	id := m.Descriptor.TypeID
	if _, exists := r.models[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateType, id)
	}
	r.models[id] = m
	return nil
}

// Model returns the model registered for id.
func (r *Registry) Model(id core.EmbeddingTypeID) (*Model, error) {
	m, ok := r.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, id)
	}
	return m, nil
}

// Types returns the registered embedding type ids in ascending order.
func (r *Registry) Types() []core.EmbeddingTypeID {
	ids := make([]core.EmbeddingTypeID, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
