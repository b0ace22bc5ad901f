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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/frapercan/FANTASIA/core"
)

// LocalDispatcher processes published batches in-process on a fixed worker
// pool. Each batch runs the handler under exponential-backoff retry; a batch
// that still fails after the last attempt is recorded and reported by Wait,
// without stopping the remaining batches.
type LocalDispatcher struct {
	pool        *ants.Pool
	handler     Handler
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger

	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

var _ Dispatcher = (*LocalDispatcher)(nil)

// Option configures a LocalDispatcher.
type Option func(*LocalDispatcher) error

// WithPoolSize sets the worker pool size for concurrent batch processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(d *LocalDispatcher) error {
		if size < 1 {
			size = 1
		}

		if d.pool != nil {
			d.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		d.pool = pool
		return nil
	}
}

// WithRetry sets the redelivery policy for failed batches. maxAttempts must
// be > 0; baseDelay doubles on each retry.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(d *LocalDispatcher) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		d.maxAttempts = maxAttempts
		d.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *LocalDispatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewLocalDispatcher creates a dispatcher that runs handler on an in-process
// worker pool.
func NewLocalDispatcher(handler Handler, opts ...Option) (*LocalDispatcher, error) {
	if handler == nil {
		return nil, ErrHandlerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	d := &LocalDispatcher{
		pool:        pool,
		handler:     handler,
		maxAttempts: 3,
		baseDelay:   1 * time.Second,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(d); optErr != nil {
			d.Release()
			return nil, optErr
		}
	}

	return d, nil
}

// Publish submits one batch to the worker pool. The batch is processed
// asynchronously; processing failures surface through Wait, not here.
func (d *LocalDispatcher) Publish(ctx context.Context, typeID core.EmbeddingTypeID, batch []core.TaskItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.wg.Add(1)
	err := d.pool.Submit(func() {
		defer d.wg.Done()
		d.process(ctx, typeID, batch)
	})
	if err != nil {
		d.wg.Done()
		return fmt.Errorf("submit batch (type %d): %w", typeID, err)
	}

	return nil
}

func (d *LocalDispatcher) process(ctx context.Context, typeID core.EmbeddingTypeID, batch []core.TaskItem) {
	err := RetryWithBackoff(ctx, func() error {
		return d.handler.Process(ctx, batch)
	}, d.maxAttempts, d.baseDelay)
	if err != nil {
		d.logger.Error("batch processing failed",
			"type", typeID, "sequences", len(batch), "attempts", d.maxAttempts, "err", err)
		d.mu.Lock()
		d.errs = append(d.errs, fmt.Errorf("batch (type %d, %d sequences): %w", typeID, len(batch), err))
		d.mu.Unlock()
		return
	}

	d.logger.Debug("batch processed", "type", typeID, "sequences", len(batch))
}

// Wait blocks until every published batch has been processed and returns
// the joined processing errors, if any. A canceled context abandons the
// wait but leaves workers running until their own context checks fire.
func (d *LocalDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return errors.Join(d.errs...)
}

// Release frees the worker pool. The dispatcher must not be used after
// calling Release.
func (d *LocalDispatcher) Release() {
	if d.pool != nil {
		d.pool.Release()
	}
}
