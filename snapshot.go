package btcfolio

// PortfolioSnapshot is the state of the portfolio valued at a single price.
type PortfolioSnapshot struct {
	TotalBTC          Quantity // net holdings
	Invested          Money    // cost basis under the engine's policy
	CurrentValue      Money    // TotalBTC * price
	ProfitLoss        Money    // CurrentValue - Invested
	ProfitLossPercent Percent  // ProfitLoss / Invested * 100, 0 when nothing is invested
	Price             Money    // the price used for the valuation
}

// Snapshot values txs at currentPrice.
//
// It fails with an *InvalidQuoteError if currentPrice is not a finite
// positive number.
func (e *Engine) Snapshot(txs []Transaction, currentPrice float64) (PortfolioSnapshot, error) {
	if err := ValidateQuote(currentPrice); err != nil {
		return PortfolioSnapshot{}, err
	}
	policy := e.policy()

	var s PortfolioSnapshot
	for _, tx := range txs {
		s.TotalBTC = s.TotalBTC.Add(tx.Signed())
		s.Invested = s.Invested.Add(policy.contribution(tx))
	}
	s.Price = M(currentPrice)
	s.CurrentValue = s.Price.Mul(s.TotalBTC)
	s.ProfitLoss = s.CurrentValue.Sub(s.Invested)
	s.ProfitLossPercent = s.ProfitLoss.ratio(s.Invested)
	return s, nil
}
