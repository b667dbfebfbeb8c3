// Package btcfolio tracks a personal bitcoin portfolio. It is local-first:
// the ledger of transactions lives in a file owned by the user.
//
// The package is organized around a few pieces:
//   - Ledger: the append-only list of buy and sell transactions, validated
//     on the way in (see Candidate).
//   - Engine: a stateless calculator that values a ledger at a price
//     (Snapshot) or replays it against a price history (HistoricalSeries).
//   - Session: the lifecycle of a ledger backed by a Store.
//   - Refresher: polls a MarketData provider through a Scheduler and pushes
//     the valuations to a Display.
//
// Market data providers, storage backends and renderers live in sub packages.
package btcfolio
