package btcfolio

import (
	"errors"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/etnz/btcfolio/date"
)

// PricePoint is one sample of the market price of bitcoin.
type PricePoint struct {
	Time  time.Time
	Price float64 // USD per BTC
}

// PricePointFromMillis builds a PricePoint from the [timestamp ms, price]
// pair used by market data APIs. A non-finite timestamp yields a zero Time,
// which HistoricalSeries treats as malformed.
func PricePointFromMillis(ms, price float64) PricePoint {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return PricePoint{Price: price}
	}
	return PricePoint{Time: date.FromMillis(int64(ms)), Price: price}
}

// valid reports whether p can be used in a series.
func (p PricePoint) valid() bool {
	return !p.Time.IsZero() && !math.IsNaN(p.Price) && !math.IsInf(p.Price, 0) && p.Price >= 0
}

// ValuePoint is the value of the portfolio at a point of the price history.
type ValuePoint struct {
	Label string
	Time  time.Time
	BTC   Quantity // cumulative holdings at Time
	Value Money    // BTC * price at Time
}

// HistoricalSeries replays txs against each point of history and returns the
// value the portfolio had at that time. A transaction counts at time t when
// its date is on or before t.
//
// Malformed points (zero or non-finite time, non-finite or negative price)
// are skipped. The returned points are always valid; the error, when not
// nil, joins one *MalformedPriceHistoryError per skipped point.
//
// History is expected in ascending time order. Out of order points are still
// valued correctly, only slower.
func (e *Engine) HistoricalSeries(txs []Transaction, history []PricePoint) ([]ValuePoint, error) {
	if len(history) == 0 {
		return []ValuePoint{}, nil
	}

	label := e.labeler(history)

	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.Date.Compare(b.Date) })

	var errs []error
	points := make([]ValuePoint, 0, len(history))
	var (
		holding Quantity  // cumulative BTC of sorted[:next]
		next    int       // first transaction not yet counted
		last    time.Time // time of the previous valid point
	)
	for i, p := range history {
		if !p.valid() {
			errs = append(errs, &MalformedPriceHistoryError{Index: i, Time: p.Time, Price: p.Price})
			continue
		}
		if p.Time.Before(last) {
			// going back in time: restart the sweep from the right position.
			next = sort.Search(len(sorted), func(j int) bool { return sorted[j].Date.After(p.Time) })
			holding = cumulative(sorted[:next])
		}
		for next < len(sorted) && !sorted[next].Date.After(p.Time) {
			holding = holding.Add(sorted[next].Signed())
			next++
		}
		last = p.Time

		points = append(points, ValuePoint{
			Label: label(p.Time),
			Time:  p.Time,
			BTC:   holding,
			Value: M(p.Price).Mul(holding),
		})
	}
	return points, errors.Join(errs...)
}

// cumulative returns the net holdings of txs.
func cumulative(txs []Transaction) Quantity {
	var q Quantity
	for _, tx := range txs {
		q = q.Add(tx.Signed())
	}
	return q
}
