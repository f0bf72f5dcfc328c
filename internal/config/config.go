package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"kcbot/internal/kucoin"

	"github.com/shopspring/decimal"
)

const (
	EnvAPIKey        = "KUCOIN_API_KEY"
	EnvAPISecret     = "KUCOIN_API_SECRET"
	EnvAPIPassphrase = "KUCOIN_API_PASSPHRASE"

	DefaultSymbol = "ADA-USDT"
)

type Credentials struct {
	APIKey        string
	APISecret     string
	APIPassphrase string
}

type Config struct {
	Symbol      string
	Side        string
	Granularity int
	Limit       int
	SMAWindow   int
	Size        decimal.Decimal
	Leverage    int
	MinBalance  float64
	AutoRepay   bool
	DryRun      bool
	KillSwitch  bool
	IPv4Only    bool
	BaseURL     string
	LogLevel    slog.Level
	Credentials Credentials
}

// Error reports an invalid or missing configuration value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Load builds a Config from an optional .env file, the process environment
// and args. Values already present in the environment win over .env.
func Load(name string, args []string) (Config, error) {
	var cfg Config
	var size string
	var logLevel string

	loadDotEnvIfPresent(".env")

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Symbol, "symbol", DefaultSymbol, "trading pair")
	fs.StringVar(&cfg.Side, "side", "buy", "order side for one-shot orders: buy or sell")
	fs.IntVar(&cfg.Granularity, "granularity", 900, "candle granularity in seconds")
	fs.IntVar(&cfg.Limit, "limit", 50, "number of candles to fetch")
	fs.IntVar(&cfg.SMAWindow, "sma-window", 20, "SMA window length")
	fs.StringVar(&size, "size", "10", "order size in base currency")
	fs.IntVar(&cfg.Leverage, "leverage", 5, "margin leverage")
	fs.Float64Var(&cfg.MinBalance, "min-balance", 2, "minimum available balance required to trade")
	fs.BoolVar(&cfg.AutoRepay, "auto-repay", false, "repay margin loans automatically")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "log intents without placing orders")
	fs.BoolVar(&cfg.KillSwitch, "kill-switch", false, "if true, never place orders")
	fs.BoolVar(&cfg.IPv4Only, "ipv4-only", true, "dial the exchange over IPv4 only")
	fs.StringVar(&cfg.BaseURL, "base-url", kucoin.DefaultHost, "exchange REST base URL")
	fs.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, &Error{Field: "flags", Reason: err.Error()}
	}

	cfg.Credentials = Credentials{
		APIKey:        os.Getenv(EnvAPIKey),
		APISecret:     os.Getenv(EnvAPISecret),
		APIPassphrase: os.Getenv(EnvAPIPassphrase),
	}
	cfg.Side = strings.ToLower(cfg.Side)

	parsed, err := decimal.NewFromString(size)
	if err != nil {
		return cfg, &Error{Field: "size", Reason: fmt.Sprintf("invalid decimal %q", size)}
	}
	cfg.Size = parsed

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return cfg, &Error{Field: "log-level", Reason: fmt.Sprintf("unknown level %q", logLevel)}
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Credentials.APIKey == "" || cfg.Credentials.APISecret == "" || cfg.Credentials.APIPassphrase == "" {
		return &Error{
			Field:  "credentials",
			Reason: fmt.Sprintf("%s, %s and %s are required", EnvAPIKey, EnvAPISecret, EnvAPIPassphrase),
		}
	}
	if cfg.Symbol == "" {
		return &Error{Field: "symbol", Reason: "must not be empty"}
	}
	if cfg.Side != "buy" && cfg.Side != "sell" {
		return &Error{Field: "side", Reason: fmt.Sprintf("must be buy or sell, got %q", cfg.Side)}
	}
	if _, err := kucoin.KlineType(cfg.Granularity); err != nil {
		return &Error{Field: "granularity", Reason: err.Error()}
	}
	if cfg.SMAWindow <= 1 {
		return &Error{Field: "sma-window", Reason: "must be > 1"}
	}
	if cfg.Limit < cfg.SMAWindow {
		return &Error{Field: "limit", Reason: "must be >= sma-window"}
	}
	if !cfg.Size.IsPositive() {
		return &Error{Field: "size", Reason: "must be > 0"}
	}
	if cfg.Leverage < 1 {
		return &Error{Field: "leverage", Reason: "must be >= 1"}
	}
	if cfg.MinBalance < 0 {
		return &Error{Field: "min-balance", Reason: "must be >= 0"}
	}
	if cfg.BaseURL == "" {
		return &Error{Field: "base-url", Reason: "must not be empty"}
	}
	return nil
}
