package btcfolio

import (
	"context"
	"math"
	"time"
)

// DefaultLookbackDays is the length of the price history used for charts.
const DefaultLookbackDays = 30

// Quote is the current market price of bitcoin.
type Quote struct {
	Price     float64   // USD per BTC
	Change24h float64   // percent change over the last 24 hours, 0 when unknown
	At        time.Time // when the price was observed, zero when unknown
}

// Validate checks that the quote can be used for a valuation. Quotes come from
// the network and are never trusted.
func (q Quote) Validate() error {
	if err := ValidateQuote(q.Price); err != nil {
		return err
	}
	if math.IsNaN(q.Change24h) || math.IsInf(q.Change24h, 0) {
		return &InvalidQuoteError{Price: q.Price}
	}
	return nil
}

// MarketData provides bitcoin prices. Implementations apply their own
// timeouts and retries; callers get a final answer.
type MarketData interface {
	// Quote returns the current price.
	Quote(ctx context.Context) (Quote, error)
	// History returns the prices of the last days days, in ascending time order.
	History(ctx context.Context, days int) ([]PricePoint, error)
}
