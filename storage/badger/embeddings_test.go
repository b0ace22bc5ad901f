package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/storage"
)

func newTestStore(t *testing.T) *EmbeddingRepository {
	t.Helper()
	repo, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testRecord(accession string, typeID core.EmbeddingTypeID, fill float32) *core.EmbeddingRecord {
	return &core.EmbeddingRecord{
		Accession:       accession,
		EmbeddingTypeID: typeID,
		Embedding:       []float32{fill, fill + 1, fill + 2},
		Shape:           []int{3},
	}
}

func TestEmbeddingStoreBasics(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	stored, err := repo.Store(ctx, testRecord("P12345", 1, 0.5))
	if err != nil {
		t.Fatalf("Failed to store record: %v", err)
	}
	if stored != 1 {
		t.Fatalf("Expected 1 stored, got %d", stored)
	}

	found, err := repo.Has(ctx, "P12345", 1)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !found {
		t.Fatal("Expected record to exist")
	}

	got, err := repo.Get(ctx, "P12345", 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Accession != "P12345" || got.EmbeddingTypeID != 1 {
		t.Fatalf("Got wrong record: %+v", got)
	}
	if len(got.Embedding) != 3 || got.Embedding[0] != 0.5 {
		t.Fatalf("Got wrong embedding: %v", got.Embedding)
	}
	if len(got.Shape) != 1 || got.Shape[0] != 3 {
		t.Fatalf("Got wrong shape: %v", got.Shape)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected count 1, got %d", count)
	}
}

func TestEmbeddingStoreNeverOverwrites(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if _, err := repo.Store(ctx, testRecord("P1", 1, 10)); err != nil {
		t.Fatalf("First store failed: %v", err)
	}

	// Same key with different payload must be skipped, not replace.
	stored, err := repo.Store(ctx, testRecord("P1", 1, 99))
	if err != nil {
		t.Fatalf("Second store failed: %v", err)
	}
	if stored != 0 {
		t.Fatalf("Expected 0 stored on duplicate, got %d", stored)
	}

	got, err := repo.Get(ctx, "P1", 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Embedding[0] != 10 {
		t.Fatalf("Original record was overwritten: %v", got.Embedding)
	}
}

func TestEmbeddingStorePerTypeIndependence(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	stored, err := repo.Store(ctx,
		testRecord("P1", 1, 1),
		testRecord("P1", 2, 2),
		testRecord("P1", 3, 3))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if stored != 3 {
		t.Fatalf("Expected 3 stored, got %d", stored)
	}

	for _, typeID := range []core.EmbeddingTypeID{1, 2, 3} {
		got, err := repo.Get(ctx, "P1", typeID)
		if err != nil {
			t.Fatalf("Get type %d failed: %v", typeID, err)
		}
		if got.Embedding[0] != float32(typeID) {
			t.Fatalf("Type %d got wrong record: %v", typeID, got.Embedding)
		}
	}
}

func TestEmbeddingStoreGetMissing(t *testing.T) {
	repo := newTestStore(t)

	_, err := repo.Get(context.Background(), "NOPE", 1)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestEmbeddingStoreRejectsInvalidRecord(t *testing.T) {
	repo := newTestStore(t)

	bad := &core.EmbeddingRecord{
		Accession:       "P1",
		EmbeddingTypeID: 1,
		Embedding:       []float32{1, 2},
		Shape:           []int{3},
	}
	stored, err := repo.Store(context.Background(), bad)
	if !errors.Is(err, core.ErrShapeMismatch) {
		t.Fatalf("Expected ErrShapeMismatch, got %v", err)
	}
	if stored != 0 {
		t.Fatalf("Expected 0 stored, got %d", stored)
	}
}

func TestEmbeddingStoreForEach(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.Store(ctx, testRecord(fmt.Sprintf("P%d", i), 1, float32(i))); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	seen := make(map[string]bool)
	err := repo.ForEach(ctx, func(record *core.EmbeddingRecord) error {
		seen[record.Accession] = true
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if len(seen) != 5 {
		t.Fatalf("Expected 5 records visited, got %d", len(seen))
	}

	// Callback errors stop iteration and propagate.
	boom := errors.New("stop here")
	visits := 0
	err = repo.ForEach(ctx, func(record *core.EmbeddingRecord) error {
		visits++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected callback error, got %v", err)
	}
	if visits != 1 {
		t.Fatalf("Expected iteration to stop after 1 visit, got %d", visits)
	}
}

func TestEmbeddingStoreConcurrentSameKey(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	storedTotals := make([]int, writers)
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			storedTotals[i], errs[i] = repo.Store(ctx, testRecord("P1", 1, float32(i)))
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < writers; i++ {
		if errs[i] != nil {
			t.Fatalf("Writer %d failed: %v", i, errs[i])
		}
		total += storedTotals[i]
	}
	if total != 1 {
		t.Fatalf("Expected exactly 1 winning write, got %d", total)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 record, got %d", count)
	}
}

func TestEmbeddingStorePersistence(t *testing.T) {
	dir := t.TempDir() + "/store"
	ctx := context.Background()

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := repo.Store(ctx, testRecord("P1", 2, 7)); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "P1", 2)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.Embedding[0] != 7 {
		t.Fatalf("Got wrong record after reopen: %v", got.Embedding)
	}
}

func TestEmbeddingStoreClosed(t *testing.T) {
	repo, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	repo.Close()

	_, err = repo.Store(context.Background(), testRecord("P1", 1, 0))
	if !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed, got %v", err)
	}
}
