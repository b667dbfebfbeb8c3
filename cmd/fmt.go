package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/btcfolio"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `btcf fmt [-o <file>]

  Validates every transaction of the ledger, converts legacy records (a
  negative amount for a sale) to explicit buy and sell records, assigns ids
  to transactions that have none, and writes the ledger back in insertion
  order. With -o, the result is written as JSONL to <file> instead, which
  also exports a SQLite ledger.

Usage Examples:
# Rewrites the default ledger file.
$ btcf fmt
# Exports a SQLite ledger.
$ btcf -store sqlite -ledger-file btc.db fmt -o btc.jsonl
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outputFile, "o", "", "Write the formatted ledger to this JSONL file instead.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeStore, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if closeStore != nil {
		defer closeStore()
	}

	txs, err := store.Load()
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: no ledger found at %q.\n", *ledgerFile)
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	// appending again validates and assigns missing ids.
	ledger := btcfolio.NewLedger()
	for _, tx := range txs {
		if _, err := ledger.AppendTransaction(tx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	out := store
	if p.outputFile != "" {
		out = btcfolio.NewFileStore(p.outputFile)
	}
	if err := out.Save(ledger.All()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %d transactions.\n", ledger.Len())
	return subcommands.ExitSuccess
}
