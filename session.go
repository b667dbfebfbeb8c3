package btcfolio

import (
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned when appending to a closed session.
var ErrClosed = errors.New("session closed")

// Session owns the ledger of a running application. It loads the ledger from
// a Store when opened and writes the whole ledger back after every append.
type Session struct {
	store  Store
	ledger *Ledger

	saveMu sync.Mutex // held across reading the ledger and writing it

	mu        sync.Mutex
	closed    bool
	recovered error // why the stored ledger was discarded, if it was
	saveErr   error // last error returned by the store
	dirty     bool  // the ledger changed since the last successful save
}

// Open loads the ledger from store. A missing or unreadable payload does not
// fail: the session starts with an empty ledger and Recovered reports why.
func Open(store Store) (*Session, error) {
	if store == nil {
		return nil, errors.New("nil store")
	}
	s := &Session{store: store}
	txs, err := store.Load()
	switch {
	case err == nil:
	case isNotExist(err):
		txs = nil
	default:
		s.recovered = err
		txs = nil
	}
	s.ledger = NewLedger(txs...)
	s.ledger.OnChange(func(Transaction) { s.save() })
	return s, nil
}

// Ledger returns the session's ledger. Appends made directly on it are
// persisted too.
func (s *Session) Ledger() *Ledger { return s.ledger }

// Recovered returns the error that made the session discard the stored
// ledger, or nil if it was loaded (or absent).
func (s *Session) Recovered() error { return s.recovered }

// Append validates and appends c, then saves the ledger. The transaction is
// kept in memory even if the save fails; the save error is returned.
func (s *Session) Append(c Candidate) (Transaction, error) {
	tx, err := c.Parse()
	if err != nil {
		return Transaction{}, err
	}
	return s.AppendTransaction(tx)
}

// AppendTransaction is Append for an already typed transaction.
func (s *Session) AppendTransaction(tx Transaction) (Transaction, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return Transaction{}, ErrClosed
	}

	tx, err := s.ledger.AppendTransaction(tx)
	if err != nil {
		return Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return tx, fmt.Errorf("transaction %s appended but not saved: %w", tx.ID, s.saveErr)
	}
	return tx, nil
}

// save writes the whole ledger to the store. Saves are serialized, and each
// one reads the ledger once it holds the lock, so an older ledger never
// overwrites a newer one.
func (s *Session) save() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	err := s.store.Save(s.ledger.All())
	s.mu.Lock()
	s.saveErr = err
	s.dirty = err != nil
	s.mu.Unlock()
}

// Close flushes the ledger if a previous save failed. The session cannot be
// appended to afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	dirty := s.dirty
	s.mu.Unlock()

	if !dirty {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.store.Save(s.ledger.All())
}
