package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/etnz/btcfolio"
	"github.com/etnz/btcfolio/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	days   int
	points int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the value of the portfolio over the last days" }
func (*historyCmd) Usage() string {
	return `btcf history [-days <n>] [-points <n>]

  Replays the ledger against the BTC price history and prints the value the
  portfolio had at each point. Use -points -1 to print every point.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", btcfolio.DefaultLookbackDays, "Number of days of price history.")
	f.IntVar(&c.points, "points", btcfolio.DefaultResample, "Approximate number of points to print, negative for all.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.days <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -days must be positive.")
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	history, err := newMarket(true).History(ctx, c.days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching the BTC price history: %v\n", err)
		return subcommands.ExitFailure
	}

	points, err := newEngine().HistoricalSeries(s.Ledger().All(), history)
	if err != nil {
		// skipped points are not fatal.
		log.Printf("warning: %v", err)
	}
	if c.points > 0 {
		points = btcfolio.Resample(points, c.points)
	}
	printMarkdown(renderer.History(points))
	return subcommands.ExitSuccess
}
