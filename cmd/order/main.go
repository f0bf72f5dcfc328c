// Command order places a single isolated-margin market order and prints the
// exchange response. -kill-switch refuses the order and -dry-run only logs it.
package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"

	"kcbot/internal/config"
	"kcbot/internal/kucoin"
	"kcbot/internal/risk"
	"kcbot/internal/strategy"
)

type orderPlacer interface {
	PlaceMarginOrder(ctx context.Context, req kucoin.MarginOrderRequest) (*kucoin.MarginOrderResponse, error)
}

func main() {
	cfg, err := config.Load("order", os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	creds := cfg.Credentials
	signer := kucoin.NewSigner(creds.APIKey, creds.APISecret, creds.APIPassphrase)
	rest := kucoin.New(cfg.BaseURL, signer, kucoin.NewHTTPClient(cfg.IPv4Only))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, rest, cfg, os.Stdout); err != nil {
		log.Fatalf("place order: %v", err)
	}
}

// run gates and submits the configured order, writing the exchange response
// to out. A dry run writes nothing and never reaches placer.
func run(ctx context.Context, placer orderPlacer, cfg config.Config, out io.Writer) error {
	req := kucoin.MarginOrderRequest{
		Symbol:    cfg.Symbol,
		Side:      kucoin.Side(cfg.Side),
		Size:      cfg.Size,
		Leverage:  cfg.Leverage,
		AutoRepay: cfg.AutoRepay,
	}

	intent := strategy.TradeIntent{Action: strategy.Buy, Size: cfg.Size, Leverage: cfg.Leverage, Reason: "one_shot_order"}
	if req.Side == kucoin.SideSell {
		intent.Action = strategy.Sell
	}
	if _, err := (risk.Gate{}).Evaluate(intent, risk.RiskContext{Symbol: cfg.Symbol, KillSwitch: cfg.KillSwitch}); err != nil {
		return err
	}

	if cfg.DryRun {
		log.Printf("dry-run order symbol=%s side=%s size=%s leverage=%d auto_repay=%t",
			req.Symbol, req.Side, req.Size, req.Leverage, req.AutoRepay)
		return nil
	}

	resp, err := placer.PlaceMarginOrder(ctx, req)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	_, err = out.Write(append(encoded, '\n'))
	return err
}
