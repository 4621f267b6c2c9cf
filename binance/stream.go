package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// StreamTimeBars streams closed time bars for symbol over WebSocket. Binance
// sends partial updates while a bar forms; those are filtered out and only
// closed bars are emitted. Both channels close when ctx is canceled or the
// connection fails; the error channel carries at most one error and stays
// empty on plain cancellation.
func (c *Client) StreamTimeBars(ctx context.Context, symbol string, interval goTrade.Interval) (<-chan goTrade.TimeBar, <-chan error) {
	out := make(chan goTrade.TimeBar)
	errs := make(chan error, 1)

	endpoint := c.wsBase + "/" + strings.ToLower(symbol) + "@kline_" + string(interval)

	go func() {
		defer close(out)
		defer close(errs)

		conn, err := dial(ctx, endpoint)
		if err != nil {
			errs <- err
			return
		}
		defer conn.close()

		for {
			message, err := conn.read(ctx)
			if err != nil {
				if ctx.Err() == nil {
					errs <- err
				}
				return
			}

			var event wsKlineEvent
			if err := json.Unmarshal(message, &event); err != nil {
				errs <- fmt.Errorf("binance: kline stream decode: %w", err)
				return
			}
			if !event.Kline.Closed {
				continue
			}

			bar, err := toTimeBar(rawKlineFromWS(event.Kline), symbol, interval)
			if err != nil {
				errs <- err
				return
			}

			select {
			case out <- bar:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}

// StreamTrades streams every executed trade for symbol over WebSocket.
func (c *Client) StreamTrades(ctx context.Context, symbol string) (<-chan goTrade.Trade, <-chan error) {
	out := make(chan goTrade.Trade)
	errs := make(chan error, 1)

	endpoint := c.wsBase + "/" + strings.ToLower(symbol) + "@trade"

	go func() {
		defer close(out)
		defer close(errs)

		conn, err := dial(ctx, endpoint)
		if err != nil {
			errs <- err
			return
		}
		defer conn.close()

		for {
			message, err := conn.read(ctx)
			if err != nil {
				if ctx.Err() == nil {
					errs <- err
				}
				return
			}

			var event wsTrade
			if err := json.Unmarshal(message, &event); err != nil {
				errs <- fmt.Errorf("binance: trade stream decode: %w", err)
				return
			}

			trade, err := toTrade(wsTradeToRaw(event), symbol)
			if err != nil {
				errs <- err
				return
			}

			select {
			case out <- trade:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}

// wsTradeToRaw fills in quoteQty, which the trade stream omits.
func wsTradeToRaw(t wsTrade) RawTrade {
	quoteQty := ""
	if price, err := decimal.NewFromString(t.Price); err == nil {
		if qty, err := decimal.NewFromString(t.Qty); err == nil {
			quoteQty = price.Mul(qty).String()
		}
	}
	return RawTrade{
		ID:           t.ID,
		Price:        t.Price,
		Qty:          t.Qty,
		QuoteQty:     quoteQty,
		TimeMS:       t.TimeMS,
		IsBuyerMaker: t.IsBuyerMaker,
	}
}

// wsConn wraps a websocket connection so reads unblock on ctx cancellation.
type wsConn struct {
	conn *websocket.Conn
	stop chan struct{}
}

func dial(ctx context.Context, endpoint string) (*wsConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("binance: dial %s: %w", endpoint, err)
	}

	w := &wsConn{
		conn: conn,
		stop: make(chan struct{}),
	}
	go func() {
		select {
		case <-ctx.Done():
			// Force the pending ReadMessage to return.
			_ = conn.Close()
		case <-w.stop:
		}
	}()

	return w, nil
}

func (w *wsConn) read(ctx context.Context) ([]byte, error) {
	_, message, err := w.conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("binance: stream read: %w", err)
	}
	return message, nil
}

func (w *wsConn) close() {
	close(w.stop)
	_ = w.conn.Close()
}
