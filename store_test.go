package btcfolio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.jsonl")
	s := NewFileStore(path)

	if _, err := s.Load(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load() on a missing file error = %v, want fs.ErrNotExist", err)
	}

	txs := []Transaction{buy("2025-01-01", 1, 20000), sell("2025-01-10", 0.3, 25000)}
	if err := s.Save(txs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(txs, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	// Save overwrites.
	if err := s.Save(txs[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, _ = s.Load()
	if len(got) != 1 {
		t.Errorf("Load() after overwrite returned %d transactions, want 1", len(got))
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the ledger file", len(entries))
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.jsonl")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path).Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want a decoding error", err)
	}
}

func TestMemoryStore(t *testing.T) {
	var s MemoryStore
	if _, err := s.Load(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load() error = %v, want fs.ErrNotExist", err)
	}
	txs := []Transaction{buy("2025-01-01", 1, 20000)}
	if err := s.Save(txs); err != nil {
		t.Fatal(err)
	}
	txs[0].Memo = "changed after save"
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Memo != "" {
		t.Errorf("MemoryStore kept a reference to the saved slice")
	}
	if s.Saves != 1 {
		t.Errorf("Saves = %d, want 1", s.Saves)
	}
}
