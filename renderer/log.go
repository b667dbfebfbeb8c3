package renderer

import (
	"bytes"

	"github.com/etnz/btcfolio"
	"github.com/etnz/btcfolio/date"
	md "github.com/nao1215/markdown"
)

// Transactions renders the ledger in insertion order.
func Transactions(txs []btcfolio.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")
	if len(txs) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Date", "Type", "Amount (BTC)", "Price", "Total", "Memo"},
		Rows:   [][]string{},
	}
	for _, tx := range txs {
		table.Rows = append(table.Rows, []string{
			date.Format(tx.Date),
			tx.Type.String(),
			tx.Amount.Fixed(),
			tx.Price.String(),
			tx.Notional().String(),
			tx.Memo,
		})
	}
	doc.Table(table)

	return doc.String()
}

// Transaction renders a single transaction, as confirmed after an append.
func Transaction(tx btcfolio.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.BulletList(
		"ID: "+tx.ID,
		"Date: "+date.Format(tx.Date),
		"Type: "+tx.Type.String(),
		"Amount: "+tx.Amount.Fixed()+" BTC",
		"Price: "+tx.Price.String(),
		"Total: "+tx.Notional().String(),
	)
	return doc.String()
}
