package metrics

import (
	"github.com/etnz/btcfolio"
)

// Display exports every refresh as gauges, then forwards it to Next if set.
// Gauges keep their last value when a refresh fails.
type Display struct {
	Next btcfolio.Display
}

// NewDisplay returns a Display that forwards to next, which may be nil.
func NewDisplay(next btcfolio.Display) *Display { return &Display{Next: next} }

func (d *Display) ShowSnapshot(s btcfolio.PortfolioSnapshot, q btcfolio.Quote) {
	PriceUSD.Set(q.Price)
	Change24hPercent.Set(q.Change24h)
	HoldingsBTC.Set(s.TotalBTC.Float())
	InvestedUSD.Set(s.Invested.Float())
	ValueUSD.Set(s.CurrentValue.Float())
	ProfitLossUSD.Set(s.ProfitLoss.Float())
	ProfitLossPercent.Set(float64(s.ProfitLossPercent))
	LastRefreshTimestamp.SetToCurrentTime()
	RefreshesTotal.WithLabelValues("snapshot").Inc()
	if d.Next != nil {
		d.Next.ShowSnapshot(s, q)
	}
}

func (d *Display) ShowHistory(points []btcfolio.ValuePoint) {
	HistoryPoints.Set(float64(len(points)))
	RefreshesTotal.WithLabelValues("history").Inc()
	if d.Next != nil {
		d.Next.ShowHistory(points)
	}
}

func (d *Display) ShowError(err error) {
	RefreshesTotal.WithLabelValues("error").Inc()
	if d.Next != nil {
		d.Next.ShowError(err)
	}
}
