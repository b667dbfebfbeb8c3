// Package stream reads live bitcoin candles from the Binance kline WebSocket.
//
// Candles are for display only: they never feed a valuation.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// DefaultURL streams one minute BTC/USDT candles.
const DefaultURL = "wss://stream.binance.com:9443/ws/btcusdt@kline_1m"

const (
	readTimeout  = 90 * time.Second
	pingInterval = 45 * time.Second
)

// Candle is one kline update. The same candle is sent several times until it
// is Closed.
type Candle struct {
	Symbol string
	Start  time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
	Closed bool
}

/*
	{
	  "e": "kline", "E": 1672515782136, "s": "BTCUSDT",
	  "k": {
	    "t": 1672515780000, "T": 1672515839999, "s": "BTCUSDT", "i": "1m",
	    "o": "16500.10", "c": "16510.00", "h": "16512.00", "l": "16499.90",
	    "v": "12.345", "x": false
	  }
	}
*/
type event struct {
	Type  string `json:"e"`
	Kline struct {
		Start  int64           `json:"t"`
		Symbol string          `json:"s"`
		Open   decimal.Decimal `json:"o"`
		Close  decimal.Decimal `json:"c"`
		High   decimal.Decimal `json:"h"`
		Low    decimal.Decimal `json:"l"`
		Volume decimal.Decimal `json:"v"`
		Closed bool            `json:"x"`
	} `json:"k"`
}

// Stream is a live candle subscription.
type Stream struct {
	conn *websocket.Conn
	done chan struct{}
	once sync.Once
}

// Dial connects to url, DefaultURL when empty.
func Dial(ctx context.Context, url string) (*Stream, error) {
	if url == "" {
		url = DefaultURL
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot dial %s: %w", url, err)
	}
	s := &Stream{conn: conn, done: make(chan struct{})}

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	go s.ping()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	return s, nil
}

func (s *Stream) ping() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			// WriteControl is safe to call concurrently with ReadMessage.
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// Next blocks until the next candle. Messages that are not klines are
// skipped. After Close, or when the server goes away, it returns an error.
func (s *Stream) Next() (Candle, error) {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				return Candle{}, ErrClosed
			default:
			}
			return Candle{}, err
		}
		// any message proves the server is alive.
		_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		if mt != websocket.TextMessage {
			continue
		}
		var ev event
		if err := json.Unmarshal(data, &ev); err != nil {
			return Candle{}, fmt.Errorf("cannot decode %q: %w", data, err)
		}
		if ev.Type != "kline" {
			continue
		}
		k := ev.Kline
		return Candle{
			Symbol: k.Symbol,
			Start:  time.UnixMilli(k.Start).UTC(),
			Open:   k.Open,
			High:   k.High,
			Low:    k.Low,
			Close:  k.Close,
			Volume: k.Volume,
			Closed: k.Closed,
		}, nil
	}
}

// ErrClosed is returned by Next once the stream is closed.
var ErrClosed = errors.New("stream closed")

// Close ends the subscription. It is safe to call more than once.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		err = s.conn.Close()
	})
	return err
}
