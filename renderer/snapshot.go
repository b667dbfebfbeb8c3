package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/etnz/btcfolio"
	md "github.com/nao1215/markdown"
)

// Snapshot renders the portfolio totals at quote q.
func Snapshot(s btcfolio.PortfolioSnapshot, q btcfolio.Quote) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Bitcoin Portfolio")
	if !q.At.IsZero() {
		doc.PlainText(fmt.Sprintf("Price as of %s", q.At.UTC().Format(time.RFC3339)))
	}

	price := s.Price.String()
	if q.Change24h != 0 {
		price = fmt.Sprintf("%s (%s 24h)", price, btcfolio.Percent(q.Change24h).SignedString())
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total BTC", s.TotalBTC.Fixed()},
			{"BTC Price", price},
			{"Invested", s.Invested.String()},
			{"Current Value", s.CurrentValue.String()},
			{"Profit/Loss", fmt.Sprintf("%s (%s)", s.ProfitLoss.SignedString(), s.ProfitLossPercent.SignedString())},
		},
	}
	doc.Table(table)

	return doc.String()
}
