package coingecko

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/btcfolio/metrics"
)

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base   http.RoundTripper
	dir    string
	period time.Duration
	now    func() time.Time
}

// NewCachingClient returns an http.Client whose successful responses are kept
// on disk in dir (os.TempDir() when empty) and reused until the current
// period, aligned on UTC, is over.
func NewCachingClient(dir string, period time.Duration) *http.Client {
	if dir == "" {
		dir = os.TempDir()
	}
	if period <= 0 {
		period = 24 * time.Hour
	}
	return &http.Client{
		Timeout:   defaultTimeout,
		Transport: &diskCache{base: http.DefaultTransport, dir: dir, period: period, now: time.Now},
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// one key per period, so the cached entries expire with it.
	slot := c.now().UTC().Truncate(c.period).Format(time.RFC3339)
	key := fmt.Sprintf("%s %s %s %s", slot, req.Method, req.URL.String(), req.Header.Get(APIKeyHeader))
	key = fmt.Sprintf("coingecko-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response on disk. DumpResponse leaves resp.Body readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o600)
}

// jwget performs an HTTP GET request to addr and unmarshals the JSON response
// body into data.
func jwget(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, Path: req.URL.Path}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// StatusError is returned when the API answers with a non 200 status.
type StatusError struct {
	Code   int
	Status string
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http GET %s: %s", e.Path, e.Status)
}

// countRequest records the outcome of a request.
func countRequest(endpoint string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		var serr *StatusError
		if errors.As(err, &serr) {
			status = fmt.Sprint(serr.Code)
		}
	}
	metrics.ProviderRequestsTotal.WithLabelValues("coingecko", endpoint, status).Inc()
}
