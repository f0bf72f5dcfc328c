package risk

import (
	"fmt"
	"log/slog"

	"kcbot/internal/strategy"
)

// Rejection reasons, also recorded in the decision journal.
const (
	ReasonBalanceUnavailable  = "balance_unavailable"
	ReasonInsufficientBalance = "insufficient_balance"
	ReasonKillSwitch          = "kill_switch_enabled"
	ReasonInvalidSize         = "invalid_size"
	ReasonInvalidLeverage     = "invalid_leverage"
)

// Rejection is returned when the gate refuses to let a run continue.
type Rejection struct {
	Reason string
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return r.Reason
	}
	return r.Reason + ": " + r.Detail
}

type BalanceContext struct {
	Symbol     string
	Balance    float64
	MinBalance float64
	// FetchErr is set when the balance could not be fetched and Balance is
	// the masked zero.
	FetchErr error
}

type RiskContext struct {
	Symbol     string
	Price      float64
	KillSwitch bool
}

type ApprovedIntent struct {
	Intent strategy.TradeIntent
	Reason string
}

type Gate struct{}

// CheckBalance rejects runs whose available balance is below the minimum.
// A failed fetch is always rejected, whatever the minimum.
func (g Gate) CheckBalance(ctx BalanceContext) error {
	if ctx.FetchErr != nil {
		slog.Info("risk rejected", "reason", ReasonBalanceUnavailable, "symbol", ctx.Symbol, "error", ctx.FetchErr)
		return &Rejection{Reason: ReasonBalanceUnavailable, Detail: ctx.FetchErr.Error()}
	}
	if ctx.Balance >= ctx.MinBalance {
		slog.Info("balance approved", "symbol", ctx.Symbol, "balance", ctx.Balance, "min", ctx.MinBalance)
		return nil
	}
	slog.Info("risk rejected", "reason", ReasonInsufficientBalance, "symbol", ctx.Symbol, "balance", ctx.Balance, "min", ctx.MinBalance)
	return &Rejection{
		Reason: ReasonInsufficientBalance,
		Detail: fmt.Sprintf("balance %g < %g", ctx.Balance, ctx.MinBalance),
	}
}

func (g Gate) Evaluate(intent strategy.TradeIntent, ctx RiskContext) (ApprovedIntent, error) {
	if intent.Action == strategy.Hold {
		return ApprovedIntent{Intent: intent, Reason: "hold"}, nil
	}

	slog.Info("risk evaluation", "intent", intent.Action, "symbol", ctx.Symbol, "size", intent.Size, "leverage", intent.Leverage, "price", ctx.Price)

	if ctx.KillSwitch {
		slog.Info("risk rejected", "reason", ReasonKillSwitch)
		return ApprovedIntent{}, &Rejection{Reason: ReasonKillSwitch}
	}
	if !intent.Size.IsPositive() {
		slog.Info("risk rejected", "reason", ReasonInvalidSize, "size", intent.Size)
		return ApprovedIntent{}, &Rejection{Reason: ReasonInvalidSize, Detail: intent.Size.String()}
	}
	if intent.Leverage < 1 {
		slog.Info("risk rejected", "reason", ReasonInvalidLeverage, "leverage", intent.Leverage)
		return ApprovedIntent{}, &Rejection{Reason: ReasonInvalidLeverage, Detail: fmt.Sprint(intent.Leverage)}
	}

	slog.Info("risk approved", "intent", intent.Action, "size", intent.Size, "reason", intent.Reason)
	return ApprovedIntent{Intent: intent, Reason: "approved"}, nil
}
