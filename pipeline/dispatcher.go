package pipeline

import (
	"context"

	"github.com/frapercan/FANTASIA/core"
)

// Handler processes one delivered batch. Implementations must be safe for
// concurrent use; the dispatcher may invoke Process from many workers at
// once.
type Handler interface {
	Process(ctx context.Context, batch []core.TaskItem) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, batch []core.TaskItem) error

// Process calls f.
func (f HandlerFunc) Process(ctx context.Context, batch []core.TaskItem) error {
	return f(ctx, batch)
}

// Dispatcher accepts planned batches for asynchronous processing. The
// in-process realization is LocalDispatcher; deployments with an external
// task queue substitute their own.
type Dispatcher interface {
	// Publish hands one batch to the dispatcher for later processing. All
	// items of the batch share typeID. A publish failure is fatal to the
	// enqueue stage; redelivery of accepted batches is the dispatcher's
	// concern, not the publisher's.
	Publish(ctx context.Context, typeID core.EmbeddingTypeID, batch []core.TaskItem) error

	// Wait blocks until every published batch has been processed and
	// returns the accumulated processing errors, if any.
	Wait(ctx context.Context) error

	// Release frees dispatcher resources. The dispatcher must not be used
	// after Release.
	Release()
}
