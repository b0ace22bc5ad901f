package embed

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrCountMismatch reports an inference response whose vector count differs
// from the number of inputs sent.
var ErrCountMismatch = errors.New("embedding count does not match input count")

// maxInflightBatches bounds how many inference sub-batches a single task
// keeps in flight at once.
const maxInflightBatches = 4

// RunTask embeds inputs through client, splitting them into sub-batches of
// at most batchSize strings. Sub-batches run concurrently but results are
// written back by index, so the returned slice preserves input order.
// A batchSize of zero or less sends everything in one request.
func RunTask(ctx context.Context, client Client, inputs []string, batchSize int) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = len(inputs)
	}

	out := make([][]float32, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInflightBatches)
	for start := 0; start < len(inputs); start += batchSize {
		start := start // per-iteration copy; required under go <1.22 loop semantics
		end := min(start+batchSize, len(inputs))
		g.Go(func() error {
			vectors, err := client.EmbedBatch(ctx, inputs[start:end])
			if err != nil {
				return err
			}
			if len(vectors) != end-start {
				return fmt.Errorf("%w: %d vectors for %d inputs", ErrCountMismatch, len(vectors), end-start)
			}
			copy(out[start:end], vectors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
