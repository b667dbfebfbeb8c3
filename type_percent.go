package btcfolio

import (
	"fmt"
	"math"
)

// Percent is a ratio expressed in percent: 12.5 means 12.5%.
type Percent float64

// percentTolerance is the precision used to compare percentages.
const percentTolerance = 0.0001

// Equal reports whether p and q are the same up to percentTolerance.
func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < percentTolerance
}

// String formats p with two decimals, like "12.50%".
func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString always shows the sign, like "+12.50%" or "-3.00%".
func (p Percent) SignedString() string {
	return fmt.Sprintf("%+.2f%%", float64(p))
}
