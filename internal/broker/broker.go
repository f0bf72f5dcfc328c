package broker

import (
	"context"
	"log/slog"

	"kcbot/internal/kucoin"
	"kcbot/internal/md"

	"github.com/shopspring/decimal"
)

type OrderRequest struct {
	Symbol        string
	Side          kucoin.Side
	Size          decimal.Decimal
	Leverage      int
	ClientOrderID string
	AutoRepay     bool
}

type OrderRef struct {
	ID            string
	ClientOrderID string
	BorrowSize    string
	// APIMessage is set when the exchange accepted the request but reported
	// an error in the response body.
	APIMessage string
}

// BalanceResult carries the outcome of a balance fetch. Err is set when the
// balance could not be determined.
type BalanceResult struct {
	Symbol    string
	Available float64
	Err       error
}

// Masked returns the balance to trade against: zero whenever the fetch
// failed.
func (r BalanceResult) Masked() float64 {
	if r.Err != nil {
		return 0
	}
	return r.Available
}

type Client struct {
	client *kucoin.Client
}

func New(client *kucoin.Client) *Client {
	return &Client{client: client}
}

func (c *Client) Balance(ctx context.Context, symbol string) BalanceResult {
	available, err := c.client.AvailableBalance(ctx, symbol)
	if err != nil {
		slog.Error("fetch isolated margin balance failed", "symbol", symbol, "error", err)
		return BalanceResult{Symbol: symbol, Err: err}
	}
	value, _ := available.Float64()
	slog.Info("isolated margin balance fetched", "symbol", symbol, "available", value)
	return BalanceResult{Symbol: symbol, Available: value}
}

func (c *Client) Candles(ctx context.Context, symbol string, granularity, limit int) (md.Candles, error) {
	candles, err := c.client.Candles(ctx, symbol, granularity, limit)
	if err != nil {
		slog.Error("fetch candles failed", "symbol", symbol, "granularity", granularity, "limit", limit, "error", err)
		return nil, err
	}
	last, _ := candles.Last()
	slog.Info("candles fetched", "symbol", symbol, "count", len(candles), "from", candles[0].Time, "to", last.Time)
	return candles, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (OrderRef, error) {
	resp, err := c.client.PlaceMarginOrder(ctx, kucoin.MarginOrderRequest{
		Symbol:    req.Symbol,
		Side:      req.Side,
		Size:      req.Size,
		Leverage:  req.Leverage,
		ClientOid: req.ClientOrderID,
		AutoRepay: req.AutoRepay,
	})
	if err != nil {
		return OrderRef{}, err
	}

	ref := OrderRef{ClientOrderID: resp.Request.ClientOid}
	if msg, ok := resp.APIMessage(); ok {
		ref.APIMessage = msg
	}
	if resp.Data != nil {
		ref.ID = resp.Data.OrderID
		if resp.Data.ClientOid != "" {
			ref.ClientOrderID = resp.Data.ClientOid
		}
		if resp.Data.BorrowSize.Valid {
			ref.BorrowSize = resp.Data.BorrowSize.Decimal.String()
		}
	}
	return ref, nil
}
