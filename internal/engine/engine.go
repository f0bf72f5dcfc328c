package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"kcbot/internal/broker"
	"kcbot/internal/config"
	"kcbot/internal/kucoin"
	"kcbot/internal/md"
	"kcbot/internal/risk"
	"kcbot/internal/strategy"
)

// Decision results.
const (
	ResultRejected       = "rejected"
	ResultDataFailed     = "data_failed"
	ResultHold           = "hold"
	ResultDryRun         = "dry_run"
	ResultOrderSubmitted = "order_submitted"
	ResultOrderAPIError  = "order_api_error"
	ResultOrderFailed    = "order_failed"
)

type Broker interface {
	Balance(ctx context.Context, symbol string) broker.BalanceResult
	Candles(ctx context.Context, symbol string, granularity, limit int) (md.Candles, error)
	PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderRef, error)
}

type Engine struct {
	cfg       config.Config
	strategy  strategy.Strategy
	gate      risk.Gate
	broker    Broker
	decisions *DecisionLogger
	runID     string
}

func New(cfg config.Config, strategy strategy.Strategy, gate risk.Gate, brokerClient Broker, decisions *DecisionLogger) *Engine {
	return &Engine{
		cfg:       cfg,
		strategy:  strategy,
		gate:      gate,
		broker:    brokerClient,
		decisions: decisions,
		runID:     decisions.RunID(),
	}
}

// Run performs one balance check, signal evaluation and optional order.
// Rejections and holds return a nil error; failed data fetches and failed
// orders return the error. Every outcome is journaled.
func (e *Engine) Run(ctx context.Context) (Decision, error) {
	symbol := e.cfg.Symbol
	decision := Decision{
		RunID:     e.runID,
		Timestamp: time.Now().UTC(),
		Symbol:    symbol,
	}

	balance := e.broker.Balance(ctx, symbol)
	decision.Balance = balance.Masked()
	log.Printf("balance symbol=%s available=%g", symbol, decision.Balance)

	if err := e.gate.CheckBalance(risk.BalanceContext{
		Symbol:     symbol,
		Balance:    balance.Masked(),
		MinBalance: e.cfg.MinBalance,
		FetchErr:   balance.Err,
	}); err != nil {
		decision.Result = ResultRejected
		decision.RejectReason = err.Error()
		e.decisions.Append(decision)
		log.Printf("symbol=%s balance=%g reject=%s", symbol, decision.Balance, err.Error())
		return decision, nil
	}

	candles, err := e.broker.Candles(ctx, symbol, e.cfg.Granularity, e.cfg.Limit)
	if err != nil {
		return e.fail(decision, ResultDataFailed, fmt.Errorf("fetch candles: %w", err))
	}
	sma, err := md.LastSMA(candles, e.cfg.SMAWindow)
	if err != nil {
		return e.fail(decision, ResultDataFailed, fmt.Errorf("compute sma over %d candles: %w", len(candles), err))
	}
	last, _ := candles.Last()
	decision.BarTime = last.Time
	decision.Close = last.Close
	decision.SMA = sma
	log.Printf("bar=%s close=%g sma=%g", last.Time.Format(time.RFC3339), last.Close, sma)

	intent := e.strategy.Decide(strategy.MarketSnapshot{
		Timestamp: last.Time,
		Close:     last.Close,
		SMA:       sma,
	})
	decision.Intent = intent.Action
	decision.Reason = intent.Reason
	if intent.Action != strategy.Hold {
		decision.Size = intent.Size.String()
		decision.Leverage = intent.Leverage
	}

	approved, err := e.gate.Evaluate(intent, risk.RiskContext{
		Symbol:     symbol,
		Price:      last.Close,
		KillSwitch: e.cfg.KillSwitch,
	})
	if err != nil {
		decision.Result = ResultRejected
		decision.RejectReason = err.Error()
		e.decisions.Append(decision)
		log.Printf("close=%g sma=%g intent=%s reject=%s", last.Close, sma, intent.Action, err.Error())
		return decision, nil
	}
	decision.ApprovalReason = approved.Reason

	if intent.Action == strategy.Hold {
		decision.Result = ResultHold
		e.decisions.Append(decision)
		log.Printf("close=%g sma=%g intent=HOLD", last.Close, sma)
		return decision, nil
	}

	if e.cfg.DryRun {
		decision.Result = ResultDryRun
		e.decisions.Append(decision)
		log.Printf("close=%g sma=%g intent=%s dry_run", last.Close, sma, intent.Action)
		return decision, nil
	}

	ref, err := e.broker.PlaceOrder(ctx, e.buildOrder(symbol, approved.Intent))
	if err != nil {
		return e.fail(decision, ResultOrderFailed, fmt.Errorf("place order: %w", err))
	}
	decision.OrderID = ref.ID
	decision.ClientOrderID = ref.ClientOrderID

	if ref.APIMessage != "" {
		decision.Result = ResultOrderAPIError
		decision.APIMessage = ref.APIMessage
		e.decisions.Append(decision)
		log.Printf("order_api_error symbol=%s side=%s msg=%q", symbol, intent.Action, ref.APIMessage)
		return decision, nil
	}

	decision.Result = ResultOrderSubmitted
	e.decisions.Append(decision)
	log.Printf("order_submitted symbol=%s side=%s size=%s order_id=%s client_order_id=%s", symbol, intent.Action, intent.Size, ref.ID, ref.ClientOrderID)
	return decision, nil
}

func (e *Engine) fail(decision Decision, result string, err error) (Decision, error) {
	decision.Result = result
	decision.Error = err.Error()
	e.decisions.Append(decision)
	return decision, err
}

func (e *Engine) buildOrder(symbol string, intent strategy.TradeIntent) broker.OrderRequest {
	side := kucoin.SideBuy
	if intent.Action == strategy.Sell {
		side = kucoin.SideSell
	}
	return broker.OrderRequest{
		Symbol:    symbol,
		Side:      side,
		Size:      intent.Size,
		Leverage:  intent.Leverage,
		AutoRepay: e.cfg.AutoRepay,
	}
}
