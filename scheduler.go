package btcfolio

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Scheduler runs a job periodically.
type Scheduler interface {
	// Every calls f every interval until ctx is done. It blocks.
	Every(ctx context.Context, interval time.Duration, f func(context.Context))
}

// TickerScheduler runs jobs on a time.Ticker. The job is run once immediately.
type TickerScheduler struct{}

func (TickerScheduler) Every(ctx context.Context, interval time.Duration, f func(context.Context)) {
	f(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f(ctx)
		}
	}
}

// ManualScheduler only runs jobs when Tick is called. It is meant for tests
// and for hosts that drive refreshes themselves.
type ManualScheduler struct {
	mu        sync.Mutex
	jobs      []func(context.Context)
	intervals []time.Duration
	once      sync.Once
	ready     chan struct{}
}

func (m *ManualScheduler) init() {
	m.once.Do(func() { m.ready = make(chan struct{}) })
}

func (m *ManualScheduler) Every(ctx context.Context, interval time.Duration, f func(context.Context)) {
	m.init()
	m.mu.Lock()
	m.jobs = append(m.jobs, f)
	m.intervals = append(m.intervals, interval)
	first := len(m.jobs) == 1
	m.mu.Unlock()
	if first {
		close(m.ready)
	}
	<-ctx.Done()
}

// Ready is closed once a first job has been registered.
func (m *ManualScheduler) Ready() <-chan struct{} {
	m.init()
	return m.ready
}

// Intervals returns the intervals jobs were registered with.
func (m *ManualScheduler) Intervals() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.intervals)
}

// Tick runs every registered job once, synchronously.
func (m *ManualScheduler) Tick(ctx context.Context) {
	m.mu.Lock()
	jobs := slices.Clone(m.jobs)
	m.mu.Unlock()
	for _, f := range jobs {
		f(ctx)
	}
}
