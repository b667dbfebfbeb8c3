package btcfolio

import (
	"time"

	"github.com/etnz/btcfolio/date"
)

// day is a helper for tests to create a transaction date.
func day(s string) time.Time { return date.MustParse(s) }

// pp is a helper for tests to create a price point.
func pp(on string, price float64) PricePoint { return PricePoint{Time: day(on), Price: price} }

// buy and sell are helpers for tests to create transactions from constants.
func buy(on string, amount, price float64) Transaction  { return NewBuy(day(on), Q(amount), M(price)) }
func sell(on string, amount, price float64) Transaction { return NewSell(day(on), Q(amount), M(price)) }
