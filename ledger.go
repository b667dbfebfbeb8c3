package btcfolio

import (
	"iter"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Ledger is the append-only list of bitcoin transactions of a portfolio.
//
// Transactions are kept in insertion order, which is not necessarily the
// chronological order of their dates. A Ledger is safe for concurrent use:
// appends are serialized.
type Ledger struct {
	mu           sync.Mutex
	transactions []Transaction
	observers    []func(Transaction)
}

// NewLedger creates a ledger holding txs, in that order. The transactions are
// trusted: use Append to add user input.
func NewLedger(txs ...Transaction) *Ledger {
	return &Ledger{transactions: slices.Clone(txs)}
}

// OnChange registers f to be called after every successful append, with the
// transaction that was appended.
func (l *Ledger) OnChange(f func(Transaction)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, f)
}

// Append validates the candidate and appends it to the ledger. On failure it
// returns a *ValidationError and the ledger is left untouched.
func (l *Ledger) Append(c Candidate) (Transaction, error) {
	tx, err := c.Parse()
	if err != nil {
		return Transaction{}, err
	}
	return l.AppendTransaction(tx)
}

// AppendTransaction validates an already typed transaction and appends it.
// An ID is assigned if tx has none.
func (l *Ledger) AppendTransaction(tx Transaction) (Transaction, error) {
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	l.mu.Lock()
	l.transactions = append(l.transactions, tx)
	observers := slices.Clone(l.observers)
	l.mu.Unlock()

	// observers may read the ledger back, so they run unlocked.
	for _, f := range observers {
		f(tx)
	}
	return tx, nil
}

// All returns a copy of the transactions in insertion order.
func (l *Ledger) All() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.transactions)
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.transactions)
}

// Transactions iterates over a snapshot of the ledger, with the insertion index.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return slices.All(l.All())
}
