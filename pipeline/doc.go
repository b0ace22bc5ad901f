// Package pipeline orchestrates the three stages that turn a sequence file
// into stored embeddings: enqueue (read, filter, batch, publish), process
// (model inference per batch), and store (idempotent persistence).
//
// The stages are connected by a Dispatcher. The in-process LocalDispatcher
// runs batches on a worker pool with exponential-backoff redelivery;
// deployments with an external task queue implement Dispatcher themselves.
// Neither the computer nor the store retries: redelivery of a failed batch
// is entirely the dispatcher's concern, and the store's refusal to
// overwrite existing keys makes redelivered work safe.
package pipeline
