package exportcsv

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/embed"
	"github.com/frapercan/FANTASIA/storage"
	storagebadger "github.com/frapercan/FANTASIA/storage/badger"
)

func newPopulatedStore(t *testing.T) storage.EmbeddingStore {
	t.Helper()

	store, err := storagebadger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	records := []*core.EmbeddingRecord{
		{
			Accession:       "P12345",
			EmbeddingTypeID: embed.TypeESM2,
			Embedding:       []float32{0.1, 0.2, 0.3, 0.4},
			Shape:           []int{4},
		},
		{
			Accession:       "P12345",
			EmbeddingTypeID: embed.TypeProstT5,
			Embedding:       []float32{0.5, 0.6},
			Shape:           []int{2},
		},
		{
			Accession:       "Q99999",
			EmbeddingTypeID: core.EmbeddingTypeID(42),
			Embedding:       []float32{1, 2, 3, 4, 5, 6},
			Shape:           []int{2, 3},
		},
	}
	stored, err := store.Store(context.Background(), records...)
	require.NoError(t, err)
	require.Equal(t, len(records), stored)

	return store
}

func TestExporter_Write(t *testing.T) {
	exporter, err := NewExporter(newPopulatedStore(t), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	rows, err := exporter.Write(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 4, "header plus one row per record")

	assert.Equal(t,
		[]string{"accession", "embedding_type_id", "model_name", "dimensions", "shape"},
		parsed[0])

	byKey := map[string][]string{}
	for _, row := range parsed[1:] {
		byKey[row[0]+"/"+row[1]] = row
	}

	esm := byKey["P12345/1"]
	require.NotNil(t, esm)
	assert.Equal(t, "facebook/esm2_t33_650M_UR50D", esm[2])
	assert.Equal(t, "4", esm[3])
	assert.Equal(t, "4", esm[4])

	prost := byKey["P12345/2"]
	require.NotNil(t, prost)
	assert.Equal(t, "Rostlab/ProstT5", prost[2])

	unknown := byKey["Q99999/42"]
	require.NotNil(t, unknown)
	assert.Equal(t, "", unknown[2], "unknown type has no catalog name")
	assert.Equal(t, "6", unknown[3])
	assert.Equal(t, "2x3", unknown[4])
}

func TestExporter_ExportToFile(t *testing.T) {
	exporter, err := NewExporter(newPopulatedStore(t), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "manifest.csv")
	rows, err := exporter.Export(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "accession,embedding_type_id"))
	assert.Equal(t, 4, strings.Count(string(data), "\n"), "header plus three rows, newline-terminated")
}

func TestExporter_EmptyStore(t *testing.T) {
	store, err := storagebadger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exporter, err := NewExporter(store, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	rows, err := exporter.Write(context.Background(), &buf)
	require.NoError(t, err)
	assert.Zero(t, rows)

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, parsed, 1, "header only")
}

func TestExporter_ProgressOutput(t *testing.T) {
	var progress bytes.Buffer
	exporter, err := NewExporter(newPopulatedStore(t), &progress)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = exporter.Write(context.Background(), &buf)
	require.NoError(t, err)

	out := progress.String()
	assert.Contains(t, out, "Exporting manifest for 3 records")
	assert.Contains(t, out, "Export complete. Wrote 3 rows")
}

func TestNewExporter_NilStore(t *testing.T) {
	_, err := NewExporter(nil, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}
