package embed

import "context"

// Client generates vector embeddings for a batch of shaped model inputs.
// Implementations must be thread-safe for concurrent use.
type Client interface {
	// EmbedBatch generates one embedding per input string.
	// The returned slice preserves input order.
	// Returns an error if any embedding generation fails.
	EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error)
}

// ClientFunc adapts a plain function to the Client interface.
type ClientFunc func(ctx context.Context, inputs []string) ([][]float32, error)

// EmbedBatch calls f.
func (f ClientFunc) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	return f(ctx, inputs)
}

// Shaper rewrites raw protein residues into the textual form a model
// family's tokenizer expects. Shaping is pure string work; numeric
// tokenization happens inside the inference server.
type Shaper interface {
	Shape(residues string) string
}

// ShaperFunc adapts a plain function to the Shaper interface.
type ShaperFunc func(residues string) string

// Shape calls f.
func (f ShaperFunc) Shape(residues string) string {
	return f(residues)
}
