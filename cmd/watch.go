package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/etnz/btcfolio"
	"github.com/etnz/btcfolio/metrics"
	"github.com/etnz/btcfolio/renderer"
	"github.com/google/subcommands"
)

type watchCmd struct {
	interval    time.Duration
	days        int
	points      int
	metricsAddr string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh the portfolio value periodically" }
func (*watchCmd) Usage() string {
	return `btcf watch [-interval <d>] [-days <n>] [-points <n>] [-metrics-addr <addr>]

  Prints the portfolio summary and value history, then refreshes them every
  <d> (between 1m and 5m) until interrupted. When a refresh fails the
  previous values stay on screen and the error is printed below them.

  With -metrics-addr, Prometheus metrics are served at http://<addr>/metrics.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.interval, "interval", btcfolio.DefaultRefreshInterval, "Refresh interval, clamped to [1m, 5m].")
	f.IntVar(&c.days, "days", btcfolio.DefaultLookbackDays, "Number of days of price history.")
	f.IntVar(&c.points, "points", btcfolio.DefaultResample, "Approximate number of history points, negative for all.")
	f.StringVar(&c.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090.")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	var display btcfolio.Display = &screen{w: os.Stdout, print: printMarkdown}
	if c.metricsAddr != "" {
		display = metrics.NewDisplay(display)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: c.metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	r := btcfolio.NewRefresher(s.Session, newMarket(false), newEngine(), display)
	r.Days = c.days
	r.Points = c.points

	if err := r.Run(ctx, btcfolio.TickerScheduler{}, c.interval); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// screen redraws the last good snapshot and history on every refresh. A
// failed refresh redraws them too, followed by the error.
type screen struct {
	w     io.Writer
	print func(md string)

	mu       sync.Mutex
	snapshot string
	history  string
}

func (s *screen) ShowSnapshot(snapshot btcfolio.PortfolioSnapshot, q btcfolio.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = renderer.Snapshot(snapshot, q)
	s.redraw("")
}

func (s *screen) ShowHistory(points []btcfolio.ValuePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = renderer.History(points)
	s.redraw("")
}

func (s *screen) ShowError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redraw(fmt.Sprintf("refresh failed at %s: %v", time.Now().Format(time.TimeOnly), err))
}

func (s *screen) redraw(status string) {
	fmt.Fprint(s.w, "\033[H\033[2J") // clear
	if s.snapshot != "" {
		s.print(s.snapshot)
	}
	if s.history != "" {
		s.print(s.history)
	}
	if status != "" {
		fmt.Fprintln(s.w, status)
	}
}
