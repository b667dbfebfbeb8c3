package btcfolio

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Store persists a whole ledger. Save always overwrites what was stored
// before.
type Store interface {
	Load() ([]Transaction, error)
	Save(txs []Transaction) error
}

// FileStore stores the ledger as a JSONL file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

// Load reads the ledger file. A missing file is reported as fs.ErrNotExist.
func (s *FileStore) Load() ([]Transaction, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeLedger(f)
}

// Save writes txs to a temporary file next to Path and renames it over Path,
// so a crash never leaves a half written ledger.
func (s *FileStore) Save(txs []Transaction) error {
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, txs); err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// MemoryStore keeps the ledger in memory.
type MemoryStore struct {
	mu    sync.Mutex
	txs   []Transaction
	saved bool
	Saves int // number of calls to Save
}

// Load returns what was last saved, or fs.ErrNotExist if nothing was.
func (s *MemoryStore) Load() ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return nil, fs.ErrNotExist
	}
	return slices.Clone(s.txs), nil
}

func (s *MemoryStore) Save(txs []Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = slices.Clone(txs)
	s.saved = true
	s.Saves++
	return nil
}

// isNotExist reports whether err means that nothing was stored yet.
func isNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
