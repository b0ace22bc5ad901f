package core

// EmbeddingTypeID is the integer key for one pretrained model configuration.
// The ids match the catalog in the embed package and are stable across runs:
// stored embeddings are keyed by (accession, EmbeddingTypeID).
type EmbeddingTypeID int

// Sequence is a single protein sequence record read from a FASTA file.
// Records are immutable once read.
type Sequence struct {
	Accession string // unique identifier within one input file run
	Residues  string // amino-acid residue string, uppercase
}

// Length returns the number of residues.
func (s Sequence) Length() int {
	return len(s.Residues)
}

// TaskItem is one element of a dispatch batch. ModelName and EmbeddingTypeID
// are denormalized copies of the model descriptor so downstream consumers
// need no external lookup. All items of one batch share EmbeddingTypeID.
type TaskItem struct {
	Sequence        string
	Accession       string
	ModelName       string
	EmbeddingTypeID EmbeddingTypeID
}

// EmbeddingRecord is one computed embedding, produced once per
// (accession, embedding type) pair. Shape describes the tensor dimensions
// of Embedding; for per-sequence pooled embeddings it is a single dimension.
type EmbeddingRecord struct {
	Accession       string
	EmbeddingTypeID EmbeddingTypeID
	Embedding       []float32
	Shape           []int
}

// Dim returns the number of values in the embedding vector.
func (r *EmbeddingRecord) Dim() int {
	return len(r.Embedding)
}

// ShapeElements returns the number of values the Shape dimensions describe.
// An empty shape describes zero values.
func (r *EmbeddingRecord) ShapeElements() int {
	if len(r.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range r.Shape {
		n *= d
	}
	return n
}
