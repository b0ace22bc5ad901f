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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidSequence indicates a Sequence failed validation.
	ErrInvalidSequence = errors.New("invalid sequence")

	// ErrEmptyAccession indicates the Accession field is empty.
	ErrEmptyAccession = errors.New("accession cannot be empty")

	// ErrEmptyResidues indicates the Residues field is empty.
	ErrEmptyResidues = errors.New("residues cannot be empty")

	// ErrInvalidResidue indicates a character outside the amino-acid alphabet.
	ErrInvalidResidue = errors.New("invalid residue character")

	// ErrInvalidTaskItem indicates a TaskItem failed validation.
	ErrInvalidTaskItem = errors.New("invalid task item")

	// ErrInvalidTypeID indicates a non-positive embedding type id.
	ErrInvalidTypeID = errors.New("embedding type id must be positive")

	// ErrEmptyModelName indicates the ModelName field is empty.
	ErrEmptyModelName = errors.New("model name cannot be empty")

	// ErrInvalidRecord indicates an EmbeddingRecord failed validation.
	ErrInvalidRecord = errors.New("invalid embedding record")

	// ErrEmptyEmbedding indicates the Embedding field is empty.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrShapeMismatch indicates Shape does not describe the embedding length.
	ErrShapeMismatch = errors.New("shape does not match embedding length")
)
