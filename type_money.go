package btcfolio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD is the only currency a portfolio is valued in.
const USD = money.USD

// Money represents a US dollar value.
type Money struct {
	value decimal.Decimal // as major unit value
}

// M returns value dollars.
func M[T float64 | int | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// String returns the dollar representation, e.g. "$1,234.56".
func (m Money) String() string {
	cur := money.New(0, USD).Currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the representation with an explicit sign: "+$10.00" or "-$3.50".
func (m Money) SignedString() string {
	if m.value.IsNegative() {
		return "-" + m.Neg().String()
	}
	return "+" + m.String()
}

func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsPositive() bool             { return m.value.IsPositive() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money            { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money            { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money         { return Money{value: m.value.Mul(q.value)} }
func (m Money) Float() float64               { return m.value.InexactFloat64() }
func (m Money) Decimal() decimal.Decimal     { return m.value }
func (m Money) MarshalJSON() ([]byte, error) { return m.value.MarshalJSON() }

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Money) UnmarshalJSON(b []byte) error { return m.value.UnmarshalJSON(b) }

// ratio returns m/n*100 as a Percent, and 0 when n is zero.
func (m Money) ratio(n Money) Percent {
	if n.value.IsZero() {
		return 0
	}
	return Percent(m.value.Div(n.value).Mul(decimal.NewFromInt(100)).InexactFloat64())
}
