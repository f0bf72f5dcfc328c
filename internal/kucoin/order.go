package kucoin

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

const (
	marginOrderPath = "/api/v3/hf/margin/order"

	DefaultLeverage = 5

	tradeTypeMargin = "MARGIN_TRADE"
	orderTypeMarket = "market"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// MarginOrderRequest describes an isolated-margin market order. Trade type,
// isolation, order type and auto-borrow are fixed and cannot be overridden.
type MarginOrderRequest struct {
	Symbol    string
	Side      Side
	Size      decimal.Decimal
	Leverage  int
	ClientOid string
	AutoRepay bool
}

type marginOrderBody struct {
	Symbol     string          `json:"symbol"`
	Side       Side            `json:"side"`
	Size       decimal.Decimal `json:"size"`
	Leverage   string          `json:"leverage"`
	TradeType  string          `json:"tradeType"`
	IsIsolated bool            `json:"isIsolated"`
	Type       string          `json:"type"`
	AutoBorrow bool            `json:"autoBorrow"`
	ClientOid  string          `json:"clientOid"`
	AutoRepay  bool            `json:"autoRepay"`
}

type MarginOrderResponse struct {
	Code string           `json:"code"`
	Msg  string           `json:"msg,omitempty"`
	Data *MarginOrderData `json:"data,omitempty"`

	// Request is the order as it was sent, with defaults applied.
	Request MarginOrderRequest `json:"-"`
}

type MarginOrderData struct {
	OrderID     string              `json:"orderId"`
	ClientOid   string              `json:"clientOid"`
	BorrowSize  decimal.NullDecimal `json:"borrowSize"`
	LoanApplyID string              `json:"loanApplyId"`
}

// APIMessage reports an API-level error embedded in a 200 response.
func (r *MarginOrderResponse) APIMessage() (string, bool) {
	return r.Msg, r.Msg != ""
}

func buildMarginOrderBody(req MarginOrderRequest) marginOrderBody {
	return marginOrderBody{
		Symbol:     req.Symbol,
		Side:       req.Side,
		Size:       req.Size,
		Leverage:   strconv.Itoa(req.Leverage),
		TradeType:  tradeTypeMargin,
		IsIsolated: true,
		Type:       orderTypeMarket,
		AutoBorrow: true,
		ClientOid:  req.ClientOid,
		AutoRepay:  req.AutoRepay,
	}
}

// PlaceMarginOrder submits an isolated-margin market order with auto-borrow.
// A 200 response carrying a msg field is logged and returned without error;
// any other status is returned as *APIError.
func (c *Client) PlaceMarginOrder(ctx context.Context, req MarginOrderRequest) (*MarginOrderResponse, error) {
	if req.ClientOid == "" {
		req.ClientOid = uuid.NewString()
	}
	if req.Leverage == 0 {
		req.Leverage = DefaultLeverage
	}

	body, err := json.Marshal(buildMarginOrderBody(req))
	if err != nil {
		return nil, fmt.Errorf("marshal margin order: %w", err)
	}

	status, data, err := c.do(ctx, fasthttp.MethodPost, marginOrderPath, body, true)
	if err != nil {
		slog.Error("place margin order failed", "symbol", req.Symbol, "side", req.Side, "size", req.Size, "error", err)
		return nil, err
	}
	if status != fasthttp.StatusOK {
		apiErr := newAPIError(status, data)
		slog.Error("place margin order failed", "symbol", req.Symbol, "side", req.Side, "size", req.Size, "status", status, "body", string(data))
		return nil, apiErr
	}

	resp := &MarginOrderResponse{Request: req}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("%w: margin order: %v", ErrMalformedResponse, err)
	}

	if msg, ok := resp.APIMessage(); ok {
		slog.Error("margin order api error", "symbol", req.Symbol, "side", req.Side, "code", resp.Code, "msg", msg)
		return resp, nil
	}

	orderID := ""
	if resp.Data != nil {
		orderID = resp.Data.OrderID
	}
	slog.Info("margin order placed", "order_id", orderID, "client_oid", req.ClientOid, "symbol", req.Symbol, "side", req.Side, "size", req.Size, "leverage", req.Leverage)
	return resp, nil
}
