package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/btcfolio"
	"github.com/etnz/btcfolio/date"
	"github.com/etnz/btcfolio/renderer"
	"github.com/google/subcommands"
)

// txFlags are the flags shared by buy and sell.
type txFlags struct {
	date   string
	amount string
	price  string
	memo   string
}

func (c *txFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().Format(date.DateFormat), "Transaction date (YYYY-MM-DD, or YYYY-MM-DDTHH:MM)")
	f.StringVar(&c.amount, "a", "", "Amount of BTC")
	f.StringVar(&c.price, "p", "", "Price of one BTC in USD")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

// appendTransaction validates c and appends it to the ledger.
func (c *txFlags) appendTransaction(f *flag.FlagSet, typ btcfolio.TxType) subcommands.ExitStatus {
	if c.amount == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	candidate := btcfolio.Candidate{Date: c.date, Type: typ.String(), Amount: c.amount, Price: c.price, Memo: c.memo}

	s, err := openWritableSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	tx, err := s.Append(candidate)
	if errors.Is(err, btcfolio.ErrValidation) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	if err := s.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", *ledgerFile)
	printMarkdown(renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct{ txFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of bitcoin" }
func (*buyCmd) Usage() string {
	return `btcf buy [-d <date>] -a <amount> -p <price> [-m <memo>]

  Records a purchase of <amount> BTC at <price> USD per BTC.
`
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.appendTransaction(f, btcfolio.Buy)
}

// --- Sell Command ---

type sellCmd struct{ txFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of bitcoin" }
func (*sellCmd) Usage() string {
	return `btcf sell [-d <date>] -a <amount> -p <price> [-m <memo>]

  Records a sale of <amount> BTC at <price> USD per BTC. Selling more than
  is held is allowed: holdings go negative.
`
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.appendTransaction(f, btcfolio.Sell)
}
