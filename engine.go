package btcfolio

import (
	"time"

	"github.com/etnz/btcfolio/date"
)

// Engine derives portfolio metrics from a list of transactions and market
// prices. It holds no state besides its configuration: every method is a pure
// function of its arguments.
type Engine struct {
	// Policy selects how transactions contribute to the invested amount.
	Policy CostBasisPolicy
	// Label formats the time of a historical point. By default points are
	// labelled by day (date.Label), or by day and time (date.LabelTime) when
	// the history has several points on the same day.
	Label func(time.Time) string
}

// NewEngine returns an Engine using policy.
func NewEngine(policy CostBasisPolicy) *Engine {
	return &Engine{Policy: policy}
}

// labeler returns the label function for history.
func (e *Engine) labeler(history []PricePoint) func(time.Time) string {
	if e != nil && e.Label != nil {
		return e.Label
	}
	if intraday(history) {
		return date.LabelTime
	}
	return date.Label
}

// intraday reports whether two consecutive valid points of history fall on
// the same day.
func intraday(history []PricePoint) bool {
	var prev time.Time
	for _, p := range history {
		if !p.valid() {
			continue
		}
		day := date.StartOfDay(p.Time.UTC())
		if day.Equal(prev) {
			return true
		}
		prev = day
	}
	return false
}

func (e *Engine) policy() CostBasisPolicy {
	if e == nil {
		return GrossNotional
	}
	return e.Policy
}
