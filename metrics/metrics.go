// Package metrics provides Prometheus metrics for btcfolio.
// Scrape them at /metrics while `btcf watch` is running.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Market data provider metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btcfolio_provider_requests_total",
			Help: "Total number of market data requests",
		},
		[]string{"provider", "endpoint", "status"},
	)

	// Refresh loop metrics
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btcfolio_refreshes_total",
			Help: "Total number of refresh results pushed to the display",
		},
		[]string{"kind"}, // snapshot, history, error
	)

	LastRefreshTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful snapshot",
		},
	)

	HistoryPoints = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_history_points",
			Help: "Number of points in the last historical series",
		},
	)

	// Portfolio metrics
	PriceUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_btc_price_usd",
			Help: "Last valid BTC price in USD",
		},
	)

	Change24hPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_btc_change_24h_percent",
			Help: "BTC price change over the last 24 hours",
		},
	)

	HoldingsBTC = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_holdings_btc",
			Help: "Net BTC held",
		},
	)

	InvestedUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_invested_usd",
			Help: "Cost basis in USD under the configured policy",
		},
	)

	ValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_value_usd",
			Help: "Current value of the holdings in USD",
		},
	)

	ProfitLossUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_profit_loss_usd",
			Help: "Current value minus invested, in USD",
		},
	)

	ProfitLossPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcfolio_profit_loss_percent",
			Help: "Profit or loss relative to the invested amount",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
