package badger

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func TestBackendOpenClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}

	if backend.IsClosed() {
		t.Fatal("Backend should not be closed")
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Failed to close backend: %v", err)
	}
	if !backend.IsClosed() {
		t.Fatal("Backend should be closed")
	}
}

func TestBackendWithTx(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	key := []byte("test-key")
	value := []byte("test-value")

	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		t.Fatalf("Write transaction failed: %v", err)
	}

	var got []byte
	err = backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			return err
		}
		got, err = item.ValueCopy(nil)
		return err
	}, false)
	if err != nil {
		t.Fatalf("Read transaction failed: %v", err)
	}
	if string(got) != string(value) {
		t.Fatalf("Expected %q, got %q", value, got)
	}
}

func TestBackendWithTxDiscardsOnError(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	boom := errors.New("abort")
	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte("k"), []byte("v")); err != nil {
			return err
		}
		return boom
	}, true)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected abort error, got %v", err)
	}

	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("k"))
		return err
	}, false)
	if !errors.Is(err, badger.ErrKeyNotFound) {
		t.Fatalf("Expected key to be absent after discard, got %v", err)
	}
}

func TestBackendOnDisk(t *testing.T) {
	dir := t.TempDir() + "/db"

	backend, err := OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("Failed to open on-disk backend: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Failed to close backend: %v", err)
	}
}
