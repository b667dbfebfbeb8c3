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

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append transactions from a file to the ledger" }
func (*importCmd) Usage() string {
	return `btcf import -f <file>

  Appends every transaction of <file> to the ledger, in file order. <file> is
  either JSONL, or the JSON array exported by the browser tracker where a
  negative amount is a sale. Transactions whose id is already in the ledger
  are skipped. Nothing is imported if one record is invalid.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "File to import.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer in.Close()
	txs, err := btcfolio.DecodeLedger(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	store, closeStore, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if closeStore != nil {
		defer closeStore()
	}

	imported, skipped, err := importInto(store, txs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing into %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d transactions into %s (%d already present)\n", imported, *ledgerFile, skipped)
	return subcommands.ExitSuccess
}

// importInto appends txs to the ledger held by store, skipping ids it already
// has, and saves the result once. On error the store is left untouched.
func importInto(store btcfolio.Store, txs []btcfolio.Transaction) (imported, skipped int, err error) {
	existing, err := store.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, 0, fmt.Errorf("ledger is unreadable, fix or move it first: %w", err)
	}
	ledger := btcfolio.NewLedger(existing...)

	known := make(map[string]bool)
	for _, tx := range existing {
		known[tx.ID] = true
	}
	for _, tx := range txs {
		if tx.ID != "" && known[tx.ID] {
			skipped++
			continue
		}
		added, err := ledger.AppendTransaction(tx)
		if err != nil {
			return 0, 0, err
		}
		known[added.ID] = true
		imported++
	}
	if imported == 0 {
		return 0, skipped, nil
	}
	if err := store.Save(ledger.All()); err != nil {
		return 0, 0, err
	}
	return imported, skipped, nil
}
