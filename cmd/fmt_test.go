package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/btcfolio"
	"github.com/google/subcommands"
)

func TestFmt_ConvertsLegacyRecords(t *testing.T) {
	path := useLedger(t, "jsonl", "btc.jsonl")
	original := `{"date":"2025-01-10","amount":1,"price":20000}

{"id":"keep-me","date":"2025-01-01","amount":-0.3,"price":30000}
`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := run(t, &fmtCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("fmt = %v", got)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("formatted ledger has %d lines, want 2:\n%s", len(lines), b)
	}
	// insertion order is kept, not sorted by date.
	if !strings.Contains(lines[0], `"date":"2025-01-10","type":"buy","amount":1,"price":20000`) || !strings.Contains(lines[0], `"id":"`) {
		t.Errorf("line 1 = %s", lines[0])
	}
	if want := `{"id":"keep-me","date":"2025-01-01","type":"sell","amount":0.3,"price":30000}`; lines[1] != want {
		t.Errorf("line 2 = %s, want %s", lines[1], want)
	}
}

func TestFmt_ExportsSQLite(t *testing.T) {
	useLedger(t, "sqlite", "btc.db")
	run(t, &buyCmd{}, "-d", "2025-01-01", "-a", "1", "-p", "20000")
	run(t, &sellCmd{}, "-d", "2025-01-02", "-a", "0.5", "-p", "25000")

	out := filepath.Join(t.TempDir(), "export.jsonl")
	if got := run(t, &fmtCmd{}, "-o", out); got != subcommands.ExitSuccess {
		t.Fatalf("fmt -o = %v", got)
	}
	txs, err := btcfolio.NewFileStore(out).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 || txs[1].Type != btcfolio.Sell {
		t.Errorf("exported %+v", txs)
	}
}

func TestFmt_Invalid(t *testing.T) {
	path := useLedger(t, "jsonl", "btc.jsonl")
	content := "{\"date\":\"2025-01-10\",\"amount\":0,\"price\":20000}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := run(t, &fmtCmd{}); got != subcommands.ExitFailure {
		t.Errorf("fmt = %v, want failure", got)
	}
	b, _ := os.ReadFile(path)
	if string(b) != content {
		t.Errorf("invalid ledger was rewritten: %s", b)
	}
}
