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


// Package exportcsv writes a manifest of a populated embedding store: one
// CSV row per stored record with its accession, embedding type, model name,
// and tensor shape. The manifest is a cheap index for spreadsheets and
// downstream scripts; the tensors themselves stay in the store.
package exportcsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/embed"
	"github.com/frapercan/FANTASIA/storage"
)

// ErrStoreRequired is returned when an embedding store is not provided.
var ErrStoreRequired = errors.New("embedding store required")

var header = []string{"accession", "embedding_type_id", "model_name", "dimensions", "shape"}

// Exporter writes store manifests.
type Exporter struct {
	store          storage.EmbeddingStore
	progress       io.Writer
	reportInterval int
}

// NewExporter creates an exporter over store.
// progress: where to write progress output (typically os.Stderr), nil to disable
func NewExporter(store storage.EmbeddingStore, progress io.Writer) (*Exporter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Exporter{
		store:          store,
		progress:       progress,
		reportInterval: 100,
	}, nil
}

// Export writes the manifest to path, creating parent directories as
// needed. It returns the number of rows written.
func (e *Exporter) Export(ctx context.Context, path string) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create manifest: %w", err)
	}

	rows, werr := e.Write(ctx, f)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return rows, werr
}

// Write writes the manifest to w, one row per stored record, in store
// iteration order. The model name is resolved from the catalog and left
// blank for types the catalog does not know.
func (e *Exporter) Write(ctx context.Context, w io.Writer) (int, error) {
	total, err := e.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}

	var tracker *ProgressTracker
	if e.progress != nil {
		fmt.Fprintf(e.progress, "Exporting manifest for %d records\n", total)
		tracker = NewProgressTracker(e.progress, total, e.reportInterval)
		tracker.Start()
	}

	csvw := csv.NewWriter(w)
	if err := csvw.Write(header); err != nil {
		return 0, err
	}

	rows := 0
	err = e.store.ForEach(ctx, func(record *core.EmbeddingRecord) error {
		row := []string{
			record.Accession,
			strconv.Itoa(int(record.EmbeddingTypeID)),
			embed.DefaultModelName(record.EmbeddingTypeID),
			strconv.Itoa(record.Dim()),
			shapeString(record.Shape),
		}
		if err := csvw.Write(row); err != nil {
			return err
		}
		rows++
		if tracker != nil {
			tracker.Increment(1)
		}
		return nil
	})
	if err != nil {
		return rows, err
	}

	csvw.Flush()
	if err := csvw.Error(); err != nil {
		return rows, err
	}

	if tracker != nil {
		tracker.Finish()
		elapsed := tracker.Elapsed()
		fmt.Fprintf(e.progress, "Export complete. Wrote %d rows in %v (%.1f records/sec)\n",
			rows, elapsed.Round(time.Millisecond), float64(rows)/elapsed.Seconds())
	}
	return rows, nil
}

// shapeString renders tensor dimensions as "d1xd2".
func shapeString(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}
