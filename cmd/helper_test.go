package cmd

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/etnz/btcfolio"
	"github.com/google/subcommands"
)

// useLedger points the global flags at a fresh ledger in a temp dir.
func useLedger(t *testing.T, kind, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	oldFile, oldKind, oldPolicy := *ledgerFile, *storeKind, costBasis
	*ledgerFile, *storeKind = path, kind
	t.Cleanup(func() {
		*ledgerFile, *storeKind, costBasis = oldFile, oldKind, oldPolicy
	})
	return path
}

// run parses args like the commander would and executes cmd.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return cmd.Execute(context.Background(), f)
}

// ledger returns what is stored in the current ledger.
func ledger(t *testing.T) []btcfolio.Transaction {
	t.Helper()
	s, err := openSession()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Recovered(); err != nil {
		t.Fatalf("ledger cannot be read: %v", err)
	}
	return s.Ledger().All()
}
