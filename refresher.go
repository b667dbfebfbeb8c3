package btcfolio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Refresh interval bounds for Run.
const (
	MinRefreshInterval     = time.Minute
	MaxRefreshInterval     = 5 * time.Minute
	DefaultRefreshInterval = MaxRefreshInterval
)

// Display receives what a refresh computed. Implementations render it.
//
// ShowError is called instead of the other methods when a refresh fails: a
// Display must keep showing the last good values in that case.
type Display interface {
	ShowSnapshot(s PortfolioSnapshot, q Quote)
	ShowHistory(points []ValuePoint)
	ShowError(err error)
}

// Refresher fetches market data, values the session's ledger and pushes the
// result to a Display.
type Refresher struct {
	Session *Session
	Market  MarketData
	Engine  *Engine
	Display Display
	Days    int // history lookback, DefaultLookbackDays when 0
	Points  int // resample target, DefaultResample when 0, no resampling when negative

	mu      sync.Mutex // serializes refreshes
	changed chan struct{}
}

// NewRefresher returns a Refresher that also refreshes, while Run is active,
// whenever the session's ledger changes.
func NewRefresher(s *Session, m MarketData, e *Engine, d Display) *Refresher {
	r := &Refresher{Session: s, Market: m, Engine: e, Display: d, changed: make(chan struct{}, 1)}
	s.Ledger().OnChange(func(Transaction) {
		select {
		case r.changed <- struct{}{}:
		default:
		}
	})
	return r
}

// Refresh runs a single refresh. Failing to get or validate a quote or a
// history is reported to the Display; skipped history points are only
// reported in the returned error.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	txs := r.Session.Ledger().All()

	var errs []error
	q, err := r.Market.Quote(ctx)
	if err == nil {
		err = q.Validate()
	}
	if err == nil {
		var s PortfolioSnapshot
		if s, err = r.Engine.Snapshot(txs, q.Price); err == nil {
			r.Display.ShowSnapshot(s, q)
		}
	}
	if err != nil {
		err = fmt.Errorf("quote: %w", err)
		r.Display.ShowError(err)
		errs = append(errs, err)
	}

	days := r.Days
	if days == 0 {
		days = DefaultLookbackDays
	}
	history, err := r.Market.History(ctx, days)
	if err != nil {
		err = fmt.Errorf("history: %w", err)
		r.Display.ShowError(err)
		return errors.Join(append(errs, err)...)
	}
	points, err := r.Engine.HistoricalSeries(txs, history)
	if err != nil {
		errs = append(errs, err)
	}
	switch {
	case r.Points == 0:
		points = Resample(points, DefaultResample)
	case r.Points > 0:
		points = Resample(points, r.Points)
	}
	r.Display.ShowHistory(points)
	return errors.Join(errs...)
}

// Run refreshes on every tick of sched and on every ledger change, until ctx
// is done. The interval is clamped to [MinRefreshInterval, MaxRefreshInterval].
func (r *Refresher) Run(ctx context.Context, sched Scheduler, interval time.Duration) error {
	switch {
	case interval == 0:
		interval = DefaultRefreshInterval
	case interval < MinRefreshInterval:
		interval = MinRefreshInterval
	case interval > MaxRefreshInterval:
		interval = MaxRefreshInterval
	}

	refresh := func(ctx context.Context) {
		if err := r.Refresh(ctx); err != nil {
			log.Printf("refresh: %v", err)
		}
	}

	var wg sync.WaitGroup
	if r.changed != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-r.changed:
					refresh(ctx)
				}
			}
		}()
	}
	sched.Every(ctx, interval, refresh)
	wg.Wait()
	return ctx.Err()
}
