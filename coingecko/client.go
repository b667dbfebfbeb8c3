// Package coingecko provides bitcoin market data from the CoinGecko public API.
package coingecko

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/btcfolio"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public CoinGecko API.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	// APIKeyHeader carries the demo API key, when there is one.
	APIKeyHeader = "x-cg-demo-api-key"

	defaultTimeout = 10 * time.Second
	// the public API allows about 30 calls a minute.
	defaultRate  = rate.Limit(0.5)
	defaultBurst = 5
	// market_chart has an hourly granularity for up to 90 days.
	historyTTL = 10 * time.Minute
)

// Client fetches bitcoin prices in USD. It implements btcfolio.MarketData.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client

	limiter *rate.Limiter
	history *expirable.LRU[int, []btcfolio.PricePoint]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.client = h } }

// WithRateLimit sets how many requests per second are sent.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// New returns a Client. apiKey can be empty.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(defaultRate, defaultBurst),
		history: expirable.NewLRU[int, []btcfolio.PricePoint](8, nil, historyTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

/*
	{
	  "bitcoin": {
	    "usd": 67187.33,
	    "usd_24h_change": 3.64,
	    "last_updated_at": 1711356300
	  }
	}
*/

// Quote returns the current price of bitcoin in USD.
func (c *Client) Quote(ctx context.Context) (btcfolio.Quote, error) {
	params := url.Values{}
	params.Set("ids", "bitcoin")
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")
	params.Set("include_last_updated_at", "true")

	var jobj any
	if err := c.get(ctx, "quote", "/simple/price", params, &jobj); err != nil {
		return btcfolio.Quote{}, err
	}

	price, err := number(jobj, "$.bitcoin.usd")
	if err != nil {
		return btcfolio.Quote{}, err
	}
	q := btcfolio.Quote{Price: price}
	// both are optional.
	if change, err := number(jobj, "$.bitcoin.usd_24h_change"); err == nil {
		q.Change24h = change
	}
	if at, err := number(jobj, "$.bitcoin.last_updated_at"); err == nil && at > 0 {
		q.At = time.Unix(int64(at), 0).UTC()
	}
	if err := q.Validate(); err != nil {
		return btcfolio.Quote{}, err
	}
	return q, nil
}

/*
	{
	  "prices": [
	    [1711843200000, 69702.30],
	    [1711929600000, 71246.95]
	  ],
	  "market_caps": [...],
	  "total_volumes": [...]
	}
*/

// History returns the hourly (or daily, beyond 90 days) prices of the last
// days days. Results are cached for a few minutes.
func (c *Client) History(ctx context.Context, days int) ([]btcfolio.PricePoint, error) {
	if days <= 0 {
		days = btcfolio.DefaultLookbackDays
	}
	if points, ok := c.history.Get(days); ok {
		return slices.Clone(points), nil
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	var payload struct {
		Prices [][]*float64 `json:"prices"` // null elements happen
	}
	if err := c.get(ctx, "history", "/coins/bitcoin/market_chart", params, &payload); err != nil {
		return nil, err
	}
	if payload.Prices == nil {
		return nil, fmt.Errorf("market_chart: no prices in response")
	}

	points := make([]btcfolio.PricePoint, 0, len(payload.Prices))
	for _, pair := range payload.Prices {
		if len(pair) < 2 || pair[0] == nil || pair[1] == nil {
			// let the engine report it.
			points = append(points, btcfolio.PricePoint{Price: math.NaN()})
			continue
		}
		points = append(points, btcfolio.PricePointFromMillis(*pair[0], *pair[1]))
	}
	c.history.Add(days, points)
	return slices.Clone(points), nil
}

// get waits for the rate limiter then GETs path and decodes the JSON answer.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, data any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	addr := c.baseURL + path + "?" + params.Encode()
	header := http.Header{}
	if c.apiKey != "" {
		header.Set(APIKeyHeader, c.apiKey)
	}
	err := jwget(ctx, c.client, addr, header, data)
	countRequest(endpoint, err)
	if err != nil {
		return fmt.Errorf("coingecko %s: %w", endpoint, err)
	}
	return nil
}

// number extracts a single float at path.
func number(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %w", path, err)
	}
	// jsonpath may return a list of one answer.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("error parsing %q: not a number: %v", path, jval)
	}
	return val, nil
}
