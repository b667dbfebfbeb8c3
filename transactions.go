package btcfolio

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/btcfolio/date"
	"github.com/shopspring/decimal"
)

// TxType is the direction of a transaction.
type TxType int

const (
	Buy TxType = iota
	Sell
)

func (t TxType) String() string {
	switch t {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseTxType parses "buy" or "sell" (case insensitive).
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown transaction type: %q", s)
	}
}

func (t TxType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *TxType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTxType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Transaction is a single buy or sell of bitcoin. It is immutable once it has
// been appended to a Ledger.
type Transaction struct {
	ID     string    // ID is assigned by the ledger on append.
	Date   time.Time // Date is when the transaction took place.
	Type   TxType
	Amount Quantity // Amount of BTC, always positive.
	Price  Money    // Price is the USD price of one BTC, always positive.
	Memo   string
}

// NewBuy creates a buy transaction.
func NewBuy(on time.Time, amount Quantity, price Money) Transaction {
	return Transaction{Date: on, Type: Buy, Amount: amount, Price: price}
}

// NewSell creates a sell transaction.
func NewSell(on time.Time, amount Quantity, price Money) Transaction {
	return Transaction{Date: on, Type: Sell, Amount: amount, Price: price}
}

// FromSigned converts a record that encodes the direction in the sign of the
// amount (negative means sell) into a Transaction.
func FromSigned(on time.Time, signedAmount Quantity, price Money) Transaction {
	if signedAmount.IsNegative() {
		return NewSell(on, signedAmount.Neg(), price)
	}
	return NewBuy(on, signedAmount, price)
}

// Signed returns the amount added to the holdings: positive for a buy,
// negative for a sell.
func (t Transaction) Signed() Quantity {
	if t.Type == Sell {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Notional returns the USD value exchanged, amount times price.
func (t Transaction) Notional() Money { return t.Price.Mul(t.Amount) }

// Equal reports whether t and u describe the same transaction.
func (t Transaction) Equal(u Transaction) bool {
	return t.ID == u.ID && t.Date.Equal(u.Date) && t.Type == u.Type &&
		t.Amount.Equal(u.Amount) && t.Price.Equal(u.Price) && t.Memo == u.Memo
}

// Validate checks the invariants of an already typed transaction.
func (t Transaction) Validate() error {
	verr := &ValidationError{}
	if t.Date.IsZero() {
		verr.add("date", "", "date is missing")
	}
	if t.Type != Buy && t.Type != Sell {
		verr.add("type", t.Type.String(), "must be buy or sell")
	}
	if !t.Amount.IsPositive() {
		verr.add("amount", t.Amount.String(), "must be a positive number")
	}
	if !t.Price.IsPositive() {
		verr.add("price", t.Price.value.String(), "must be a positive number")
	}
	return verr.orNil()
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.ID)
	w.Append("date", date.Format(t.Date))
	w.Append("type", t.Type)
	w.Append("amount", t.Amount)
	w.Append("price", t.Price)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// Candidate is a transaction as entered by the user: every field is raw text.
type Candidate struct {
	Date   string
	Type   string // "buy" or "sell", defaults to "buy"
	Amount string
	Price  string
	Memo   string
}

// Parse validates the candidate and returns the matching Transaction. On
// failure it returns a *ValidationError naming every offending field.
func (c Candidate) Parse() (Transaction, error) {
	verr := &ValidationError{}
	var tx Transaction
	tx.Memo = strings.TrimSpace(c.Memo)

	if strings.TrimSpace(c.Date) == "" {
		verr.add("date", c.Date, "date is missing")
	} else if on, err := date.Parse(strings.TrimSpace(c.Date)); err != nil {
		verr.add("date", c.Date, "not a date")
	} else {
		tx.Date = on
	}

	if strings.TrimSpace(c.Type) == "" {
		tx.Type = Buy
	} else if typ, err := ParseTxType(c.Type); err != nil {
		verr.add("type", c.Type, "must be buy or sell")
	} else {
		tx.Type = typ
	}

	if v, ok := parsePositive(verr, "amount", c.Amount); ok {
		tx.Amount = Q(v)
	}
	if v, ok := parsePositive(verr, "price", c.Price); ok {
		tx.Price = M(v)
	}

	if err := verr.orNil(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// parsePositive parses a finite positive decimal number. Failures are
// recorded into verr.
func parsePositive(verr *ValidationError, field, raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		verr.add(field, raw, "is missing")
		return decimal.Decimal{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		verr.add(field, raw, "not a number")
		return decimal.Decimal{}, false
	}
	if !isFinitePositive(f) {
		verr.add(field, raw, "must be a finite positive number")
		return decimal.Decimal{}, false
	}
	// decimal keeps the exact digits typed by the user.
	d, err := decimal.NewFromString(s)
	if err != nil {
		d = decimal.NewFromFloat(f)
	}
	return d, true
}
