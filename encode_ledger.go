package btcfolio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/btcfolio/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// record is the loose shape of a stored transaction. Type is optional: older
// records encode a sell as a negative amount.
type record struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Type   *TxType         `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Memo   string          `json:"memo"`
}

// transaction converts the record into a validated Transaction.
func (r record) transaction() (Transaction, error) {
	on, err := date.Parse(r.Date)
	if err != nil && r.Date != "" {
		return Transaction{}, err
	}
	var tx Transaction
	if r.Type == nil {
		tx = FromSigned(on, Q(r.Amount), M(r.Price))
	} else {
		tx = Transaction{Date: on, Type: *r.Type, Amount: Q(r.Amount), Price: M(r.Price)}
	}
	tx.ID = r.ID
	tx.Memo = r.Memo
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// EncodeTransaction writes tx as a single JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	b, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// EncodeLedger writes txs as JSONL, one transaction per line, in the given order.
func EncodeLedger(w io.Writer, txs []Transaction) error {
	bw := bufio.NewWriter(w)
	for _, tx := range txs {
		if err := EncodeTransaction(bw, tx); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeLedger decodes transactions from r. It reads JSONL as written by
// EncodeLedger, and also accepts a single JSON array of records, the format
// exported by the browser version of the tracker.
func DecodeLedger(r io.Reader) ([]Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	content = bytes.TrimSpace(content)
	if len(content) > 0 && content[0] == '[' {
		return decodeArray(content)
	}

	txs := make([]Transaction, 0)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var rec record
		if err := json.Unmarshal(lineBytes, &rec); err != nil {
			return nil, fmt.Errorf("line %d: could not decode %q: %w", line, string(lineBytes), err)
		}
		tx, err := rec.transaction()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, scanner.Err()
}

func decodeArray(content []byte) ([]Transaction, error) {
	var recs []record
	if err := json.Unmarshal(content, &recs); err != nil {
		return nil, fmt.Errorf("could not decode transaction list: %w", err)
	}
	txs := make([]Transaction, 0, len(recs))
	for i, rec := range recs {
		tx, err := rec.transaction()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
