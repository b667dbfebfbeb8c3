package btcfolio

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLedger_Append(t *testing.T) {
	ledger := NewLedger()
	tx, err := ledger.Append(Candidate{Date: "2025-01-10", Type: "buy", Amount: "1", Price: "20000"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if tx.ID == "" {
		t.Error("Append() did not assign an ID")
	}
	if ledger.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ledger.Len())
	}
	if got := ledger.All()[0]; !got.Equal(tx) {
		t.Errorf("All()[0] = %v, want %v", got, tx)
	}
}

func TestLedger_AppendInvalidLeavesLedgerUnchanged(t *testing.T) {
	ledger := NewLedger(buy("2025-01-10", 1, 20000))
	before := ledger.All()

	calls := 0
	ledger.OnChange(func(Transaction) { calls++ })

	if _, err := ledger.Append(Candidate{Date: "2025-01-11", Amount: "NaN", Price: "20000"}); err == nil {
		t.Fatal("Append() expected an error")
	}
	if _, err := ledger.AppendTransaction(Transaction{Date: day("2025-01-11"), Type: Buy, Amount: Q(0), Price: M(1)}); err == nil {
		t.Fatal("AppendTransaction() expected an error")
	}

	if diff := cmp.Diff(before, ledger.All()); diff != "" {
		t.Errorf("ledger changed after failed appends (-before +after):\n%s", diff)
	}
	if calls != 0 {
		t.Errorf("observers called %d times, want 0", calls)
	}
}

func TestLedger_KeepsInsertionOrder(t *testing.T) {
	ledger := NewLedger()
	for _, d := range []string{"2025-03-01", "2025-01-01", "2025-02-01"} {
		if _, err := ledger.Append(Candidate{Date: d, Amount: "1", Price: "1"}); err != nil {
			t.Fatalf("Append(%s) error = %v", d, err)
		}
	}
	var got []string
	for _, tx := range ledger.Transactions() {
		got = append(got, tx.Date.Format("2006-01-02"))
	}
	want := []string{"2025-03-01", "2025-01-01", "2025-02-01"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transactions() order mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_AllIsACopy(t *testing.T) {
	ledger := NewLedger(buy("2025-01-10", 1, 20000))
	all := ledger.All()
	all[0] = sell("2025-01-10", 5, 1)
	if ledger.All()[0].Type != Buy {
		t.Error("mutating All() result changed the ledger")
	}
}

func TestLedger_OnChange(t *testing.T) {
	ledger := NewLedger()
	var seen []Transaction
	ledger.OnChange(func(tx Transaction) {
		// observers can read the ledger back.
		if ledger.Len() != len(seen)+1 {
			t.Errorf("observer sees Len() = %d, want %d", ledger.Len(), len(seen)+1)
		}
		seen = append(seen, tx)
	})
	tx, err := ledger.AppendTransaction(buy("2025-01-10", 1, 20000))
	if err != nil {
		t.Fatalf("AppendTransaction() error = %v", err)
	}
	if len(seen) != 1 || seen[0].ID != tx.ID {
		t.Errorf("observer saw %v, want [%v]", seen, tx)
	}
}

func TestLedger_ConcurrentAppends(t *testing.T) {
	ledger := NewLedger()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Append(Candidate{Date: "2025-01-10", Amount: "0.1", Price: "20000"}); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}()
	}
	wg.Wait()
	if ledger.Len() != 50 {
		t.Errorf("Len() = %d, want 50", ledger.Len())
	}
	s, err := NewEngine(GrossNotional).Snapshot(ledger.All(), 1)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if !s.TotalBTC.Equal(Q(5)) {
		t.Errorf("TotalBTC = %v, want 5", s.TotalBTC)
	}
}
