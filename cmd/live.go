package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/btcfolio"
	"github.com/etnz/btcfolio/stream"
	"github.com/google/subcommands"
)

type liveCmd struct {
	url    string
	closed bool
}

func (*liveCmd) Name() string     { return "live" }
func (*liveCmd) Synopsis() string { return "print live one minute BTC/USDT candles" }
func (*liveCmd) Usage() string {
	return `btcf live [-url <ws url>] [-closed]

  Prints BTC/USDT candles from the Binance kline stream until interrupted.
  Live prices are not used to value the portfolio.
`
}

func (c *liveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", stream.DefaultURL, "WebSocket URL of the kline stream.")
	f.BoolVar(&c.closed, "closed", false, "Print only closed candles.")
}

func (c *liveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := stream.Dial(ctx, c.url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	for {
		candle, err := s.Next()
		if errors.Is(err, stream.ErrClosed) {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if c.closed && !candle.Closed {
			continue
		}
		fmt.Println(formatCandle(candle))
	}
}

func formatCandle(c stream.Candle) string {
	state := "open"
	if c.Closed {
		state = "closed"
	}
	return fmt.Sprintf("%s %s  O %s  H %s  L %s  C %s  V %s BTC  (%s)",
		c.Start.Format("2006-01-02 15:04"), c.Symbol,
		btcfolio.M(c.Open), btcfolio.M(c.High), btcfolio.M(c.Low), btcfolio.M(c.Close),
		c.Volume.StringFixed(3), state)
}
