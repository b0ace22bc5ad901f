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

import "fmt"

// ValidateSequence validates a Sequence according to domain rules.
//
// Validation rules:
//   - Accession must not be empty
//   - Residues must not be empty
//   - Residues must be drawn from the amino-acid alphabet: the letters
//     A-Z (standard plus extended IUPAC codes) and '*' for stop codons
//
// Lowercase residues are accepted; the FASTA reader uppercases them on read.
func ValidateSequence(seq Sequence) error {
	if seq.Accession == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSequence, ErrEmptyAccession)
	}
	if seq.Residues == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSequence, ErrEmptyResidues)
	}
	for i := 0; i < len(seq.Residues); i++ {
		if !isResidue(seq.Residues[i]) {
			return fmt.Errorf("%w: %w %q at position %d",
				ErrInvalidSequence, ErrInvalidResidue, seq.Residues[i], i)
		}
	}
	return nil
}

// ValidateTaskItem validates a batch element.
//
// Validation rules:
//   - Accession and Sequence must not be empty
//   - EmbeddingTypeID must be positive
//   - ModelName must not be empty (it is denormalized at planning time)
func ValidateTaskItem(item TaskItem) error {
	if item.Accession == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTaskItem, ErrEmptyAccession)
	}
	if item.Sequence == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTaskItem, ErrEmptyResidues)
	}
	if item.EmbeddingTypeID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTaskItem, ErrInvalidTypeID)
	}
	if item.ModelName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTaskItem, ErrEmptyModelName)
	}
	return nil
}

// ValidateRecord validates an EmbeddingRecord before it is stored.
//
// Validation rules:
//   - Accession must not be empty
//   - EmbeddingTypeID must be positive
//   - Embedding must not be empty
//   - Shape must describe exactly len(Embedding) values
func ValidateRecord(record *EmbeddingRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if record.Accession == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyAccession)
	}
	if record.EmbeddingTypeID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidTypeID)
	}
	if len(record.Embedding) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyEmbedding)
	}
	if record.ShapeElements() != len(record.Embedding) {
		return fmt.Errorf("%w: %w (shape %v, %d values)",
			ErrInvalidRecord, ErrShapeMismatch, record.Shape, len(record.Embedding))
	}
	return nil
}

// isResidue reports whether c is a valid amino-acid character. All 26
// letters are valid under the extended IUPAC protein alphabet; '*' marks
// a translated stop codon.
func isResidue(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c == '*':
		return true
	}
	return false
}
