package btcfolio

import "fmt"

// CostBasisPolicy defines how transactions contribute to the invested amount.
type CostBasisPolicy int

const (
	// GrossNotional adds amount*price of every transaction, buys and sells
	// alike. This is the historical behavior of the tracker and the default.
	GrossNotional CostBasisPolicy = iota
	// NetFlow adds the notional of buys and subtracts the notional of sells.
	NetFlow
	// BuysOnly adds the notional of buys and ignores sells.
	BuysOnly
)

func (p CostBasisPolicy) String() string {
	switch p {
	case GrossNotional:
		return "gross"
	case NetFlow:
		return "net"
	case BuysOnly:
		return "buys"
	default:
		return "unknown"
	}
}

// ParseCostBasisPolicy parses a string into a CostBasisPolicy.
func ParseCostBasisPolicy(s string) (CostBasisPolicy, error) {
	switch s {
	case "gross":
		return GrossNotional, nil
	case "net":
		return NetFlow, nil
	case "buys":
		return BuysOnly, nil
	default:
		return 0, fmt.Errorf("unknown cost basis policy: %q", s)
	}
}

// Set implements flag.Value.
func (p *CostBasisPolicy) Set(s string) error {
	v, err := ParseCostBasisPolicy(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// contribution returns what tx adds to the invested amount under policy p.
func (p CostBasisPolicy) contribution(tx Transaction) Money {
	notional := tx.Notional()
	switch {
	case tx.Type == Buy:
		return notional
	case p == NetFlow:
		return notional.Neg()
	case p == BuysOnly:
		return Money{}
	default:
		return notional
	}
}
