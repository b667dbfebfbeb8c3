package renderer

import (
	"bytes"

	"github.com/etnz/btcfolio"
	md "github.com/nao1215/markdown"
)

// History renders a reconstructed value series, oldest first.
func History(points []btcfolio.ValuePoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Value")
	if len(points) == 0 {
		doc.PlainText("No price history.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "BTC", "Value"},
		Rows:   [][]string{},
	}
	for _, p := range points {
		table.Rows = append(table.Rows, []string{
			p.Label,
			p.BTC.Fixed(),
			p.Value.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
