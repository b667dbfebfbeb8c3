package btcfolio

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

// fakeMarket returns canned data.
type fakeMarket struct {
	mu         sync.Mutex
	quote      Quote
	quoteErr   error
	history    []PricePoint
	historyErr error
	days       int
}

func (m *fakeMarket) Quote(ctx context.Context) (Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quote, m.quoteErr
}

func (m *fakeMarket) History(ctx context.Context, days int) ([]PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days = days
	return m.history, m.historyErr
}

func (m *fakeMarket) set(f func(m *fakeMarket)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f(m)
}

// recordingDisplay keeps what it was last shown, like a screen would.
type recordingDisplay struct {
	mu        sync.Mutex
	snapshot  PortfolioSnapshot
	quote     Quote
	points    []ValuePoint
	errs      []error
	snapshots int
}

func (d *recordingDisplay) ShowSnapshot(s PortfolioSnapshot, q Quote) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot, d.quote = s, q
	d.snapshots++
}

func (d *recordingDisplay) ShowHistory(points []ValuePoint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.points = points
}

func (d *recordingDisplay) ShowError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs = append(d.errs, err)
}

func (d *recordingDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshots
}

func newTestRefresher(t *testing.T, m MarketData) (*Refresher, *recordingDisplay) {
	t.Helper()
	s, err := Open(&MemoryStore{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(candidate("2025-01-10", "buy", "1", "20000")); err != nil {
		t.Fatal(err)
	}
	d := &recordingDisplay{}
	return NewRefresher(s, m, NewEngine(GrossNotional), d), d
}

func TestRefresher_Refresh(t *testing.T) {
	m := &fakeMarket{
		quote:   Quote{Price: 30000, Change24h: 1.5},
		history: []PricePoint{pp("2025-01-09", 20000), pp("2025-01-10", 25000)},
	}
	r, d := newTestRefresher(t, m)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !d.snapshot.CurrentValue.Equal(M(30000)) || !d.snapshot.ProfitLossPercent.Equal(50) {
		t.Errorf("snapshot = %+v", d.snapshot)
	}
	if d.quote.Change24h != 1.5 {
		t.Errorf("quote = %+v", d.quote)
	}
	if len(d.points) != 2 || !d.points[1].Value.Equal(M(25000)) {
		t.Errorf("points = %+v", d.points)
	}
	if m.days != DefaultLookbackDays {
		t.Errorf("History() called with %d days, want %d", m.days, DefaultLookbackDays)
	}
	if len(d.errs) != 0 {
		t.Errorf("errors shown: %v", d.errs)
	}
}

func TestRefresher_FailureKeepsLastRender(t *testing.T) {
	m := &fakeMarket{
		quote:   Quote{Price: 30000},
		history: []PricePoint{pp("2025-01-10", 25000)},
	}
	r, d := newTestRefresher(t, m)
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name string
		set  func(m *fakeMarket)
	}{
		{"network error", func(m *fakeMarket) { m.quoteErr = errors.New("timeout") }},
		{"nan quote", func(m *fakeMarket) { m.quoteErr = nil; m.quote = Quote{Price: math.NaN()} }},
		{"zero quote", func(m *fakeMarket) { m.quote = Quote{Price: 0} }},
		{"history error", func(m *fakeMarket) { m.quote = Quote{Price: -1}; m.historyErr = errors.New("rate limited") }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m.set(tc.set)
			before := len(d.errs)
			if err := r.Refresh(context.Background()); err == nil {
				t.Errorf("Refresh() error = nil")
			}
			if len(d.errs) == before {
				t.Errorf("no error was shown")
			}
			if !d.snapshot.CurrentValue.Equal(M(30000)) || d.snapshots != 1 {
				t.Errorf("last good snapshot was replaced: %+v", d.snapshot)
			}
			if len(d.points) != 1 {
				t.Errorf("last good history was replaced: %+v", d.points)
			}
		})
	}
}

func TestRefresher_MalformedHistoryIsNotShownAsError(t *testing.T) {
	m := &fakeMarket{
		quote:   Quote{Price: 30000},
		history: []PricePoint{pp("2025-01-10", math.NaN()), pp("2025-01-11", 25000)},
	}
	r, d := newTestRefresher(t, m)
	err := r.Refresh(context.Background())
	if !errors.Is(err, ErrMalformedPriceHistory) {
		t.Errorf("Refresh() error = %v, want ErrMalformedPriceHistory", err)
	}
	if len(d.errs) != 0 {
		t.Errorf("errors shown: %v", d.errs)
	}
	if len(d.points) != 1 {
		t.Errorf("got %d points, want 1", len(d.points))
	}
}

func TestRefresher_Resamples(t *testing.T) {
	var history []PricePoint
	for i := range 120 {
		history = append(history, PricePoint{Time: day("2025-01-01").Add(time.Duration(i) * time.Hour), Price: 1})
	}
	testCases := []struct {
		points int
		want   int
	}{
		{0, 61},
		{10, 120/12 + 1},
		{-1, 120},
	}
	for _, tc := range testCases {
		r, d := newTestRefresher(t, &fakeMarket{quote: Quote{Price: 1}, history: history})
		r.Points = tc.points
		if err := r.Refresh(context.Background()); err != nil {
			t.Fatal(err)
		}
		if len(d.points) != tc.want {
			t.Errorf("Points=%d: got %d points, want %d", tc.points, len(d.points), tc.want)
		}
	}
}

func TestRefresher_Run(t *testing.T) {
	testCases := []struct {
		interval time.Duration
		want     time.Duration
	}{
		{0, DefaultRefreshInterval},
		{time.Second, MinRefreshInterval},
		{2 * time.Minute, 2 * time.Minute},
		{time.Hour, MaxRefreshInterval},
	}
	for _, tc := range testCases {
		t.Run(tc.interval.String(), func(t *testing.T) {
			r, d := newTestRefresher(t, &fakeMarket{quote: Quote{Price: 30000}})
			sched := &ManualScheduler{}
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error)
			go func() { done <- r.Run(ctx, sched, tc.interval) }()

			<-sched.Ready()
			sched.Tick(ctx)
			if d.count() != 1 {
				t.Errorf("after one tick, %d snapshots shown, want 1", d.count())
			}
			if got := sched.Intervals(); len(got) != 1 || got[0] != tc.want {
				t.Errorf("Intervals() = %v, want [%v]", got, tc.want)
			}

			cancel()
			if err := <-done; !errors.Is(err, context.Canceled) {
				t.Errorf("Run() error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestRefresher_RunRefreshesOnAppend(t *testing.T) {
	r, d := newTestRefresher(t, &fakeMarket{quote: Quote{Price: 30000}})
	sched := &ManualScheduler{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx, sched, time.Minute)
	<-sched.Ready()

	if _, err := r.Session.Append(candidate("2025-01-11", "buy", "1", "30000")); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for d.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if d.count() == 0 {
		t.Fatalf("no refresh after an append")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.snapshot.TotalBTC.Equal(Q(2)) {
		t.Errorf("TotalBTC = %v, want 2", d.snapshot.TotalBTC)
	}
}
