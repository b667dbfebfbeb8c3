package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// serve upgrades the connection and sends messages, then waits for the client
// to hang up.
func serve(t *testing.T, messages ...string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

const kline = `{"e":"kline","E":1735689601000,"s":"BTCUSDT","k":{"t":1735689600000,"T":1735689659999,"s":"BTCUSDT","i":"1m","o":"93000.10","c":"93010.00","h":"93012.00","l":"92999.90","v":"12.345","x":%s}}`

func TestStream_Next(t *testing.T) {
	url := serve(t,
		`{"result":null,"id":1}`,
		strings.Replace(kline, "%s", "false", 1),
		strings.Replace(kline, "%s", "true", 1),
	)
	s, err := Dial(context.Background(), url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer s.Close()

	c, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if c.Symbol != "BTCUSDT" || c.Closed {
		t.Errorf("Next() = %+v", c)
	}
	if !c.Start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", c.Start)
	}
	if !c.Close.Equal(decimal.RequireFromString("93010")) || !c.Volume.Equal(decimal.RequireFromString("12.345")) {
		t.Errorf("Close = %v, Volume = %v", c.Close, c.Volume)
	}

	c, err = s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !c.Closed {
		t.Errorf("second candle is not closed")
	}
}

func TestStream_BadPayload(t *testing.T) {
	s, err := Dial(context.Background(), serve(t, `{"e":"kline","k":{"o":"abc"}}`))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Next(); err == nil {
		t.Errorf("Next() error = nil, want a decoding error")
	}
}

func TestStream_Close(t *testing.T) {
	s, err := Dial(context.Background(), serve(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.Next(); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() after Close error = %v, want ErrClosed", err)
	}
}

func TestStream_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, err := Dial(ctx, serve(t))
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	if _, err := s.Next(); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() after cancel error = %v, want ErrClosed", err)
	}
}

func TestDial_Error(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	if _, err := Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")); err == nil {
		t.Errorf("Dial() error = nil on a plain HTTP server")
	}
}
