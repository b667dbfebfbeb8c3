package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/btcfolio"
	"github.com/etnz/btcfolio/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	price float64
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display holdings, invested amount and profit/loss" }
func (*summaryCmd) Usage() string {
	return `btcf summary [-price <usd>]

  Values the ledger at the current CoinGecko price, or at <usd> if given.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.price, "price", 0, "Value the ledger at this BTC price instead of fetching the current one.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	q := btcfolio.Quote{Price: c.price}
	if c.price == 0 {
		q, err = newMarket(false).Quote(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching the BTC price: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	snapshot, err := newEngine().Snapshot(s.Ledger().All(), q.Price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.Snapshot(snapshot, q))
	return subcommands.ExitSuccess
}
