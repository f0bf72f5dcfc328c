package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kcbot/internal/broker"
	"kcbot/internal/config"
	"kcbot/internal/engine"
	"kcbot/internal/kucoin"
	"kcbot/internal/risk"
	"kcbot/internal/strategy"
)

func main() {
	cfg, err := config.Load("bot", os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	runID := generateRunID()
	decisions := engine.NewDecisionLogger(os.Stdout, runID)

	creds := cfg.Credentials
	signer := kucoin.NewSigner(creds.APIKey, creds.APISecret, creds.APIPassphrase)
	rest := kucoin.New(cfg.BaseURL, signer, kucoin.NewHTTPClient(cfg.IPv4Only))
	brokerClient := broker.New(rest)
	strategyImpl := strategy.SMA{Size: cfg.Size, Leverage: cfg.Leverage}
	engineImpl := engine.New(cfg, strategyImpl, risk.Gate{}, brokerClient, decisions)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("starting run=%s symbol=%s granularity=%d sma_window=%d dry_run=%v", runID, cfg.Symbol, cfg.Granularity, cfg.SMAWindow, cfg.DryRun)
	decision, err := engineImpl.Run(ctx)
	if err != nil {
		// Trading failures never change the exit status.
		log.Printf("margin trade failed: %v", err)
	}
	log.Printf("run complete result=%s", decision.Result)
}

func generateRunID() string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return timestamp
	}
	return timestamp + "-" + hex.EncodeToString(randomBytes)
}
