package strategy

import "github.com/shopspring/decimal"

// SMA goes long when the close is above its moving average and short when it
// is below. Every signal trades the same size and leverage.
type SMA struct {
	Size     decimal.Decimal
	Leverage int
}

func (s SMA) Decide(snapshot MarketSnapshot) TradeIntent {
	if snapshot.Close > snapshot.SMA {
		return TradeIntent{
			Action:   Buy,
			Size:     s.Size,
			Leverage: s.Leverage,
			Reason:   "close_above_sma",
		}
	}
	if snapshot.Close < snapshot.SMA {
		return TradeIntent{
			Action:   Sell,
			Size:     s.Size,
			Leverage: s.Leverage,
			Reason:   "close_below_sma",
		}
	}
	return TradeIntent{Action: Hold, Reason: "close_equals_sma"}
}
