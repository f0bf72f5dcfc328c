package strategy

import (
	"time"

	"github.com/shopspring/decimal"
)

type Action string

const (
	Hold Action = "HOLD"
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

type MarketSnapshot struct {
	Timestamp time.Time
	Close     float64
	SMA       float64
}

type TradeIntent struct {
	Action   Action
	Size     decimal.Decimal
	Leverage int
	Reason   string
}

type Strategy interface {
	Decide(snapshot MarketSnapshot) TradeIntent
}
