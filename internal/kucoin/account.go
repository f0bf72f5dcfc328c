package kucoin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

const isolatedAccountsPath = "/api/v1/isolated/accounts"

type IsolatedAccounts struct {
	TotalConversionBalance     decimal.Decimal `json:"totalConversionBalance"`
	LiabilityConversionBalance decimal.Decimal `json:"liabilityConversionBalance"`
	Assets                     []IsolatedAsset `json:"assets"`
}

type IsolatedAsset struct {
	Symbol     string       `json:"symbol"`
	Status     string       `json:"status"`
	BaseAsset  *AssetBalance `json:"baseAsset"`
	QuoteAsset *AssetBalance `json:"quoteAsset"`
}

type AssetBalance struct {
	Currency         string          `json:"currency"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	HoldBalance      decimal.Decimal `json:"holdBalance"`
	AvailableBalance decimal.NullDecimal `json:"availableBalance"`
}

// IsolatedAccounts fetches all isolated-margin sub-accounts.
func (c *Client) IsolatedAccounts(ctx context.Context) (IsolatedAccounts, error) {
	var payload struct {
		TotalConversionBalance     decimal.Decimal  `json:"totalConversionBalance"`
		LiabilityConversionBalance decimal.Decimal  `json:"liabilityConversionBalance"`
		Assets                     *[]IsolatedAsset `json:"assets"`
	}
	if err := c.getJSON(ctx, isolatedAccountsPath, true, &payload); err != nil {
		return IsolatedAccounts{}, fmt.Errorf("isolated accounts: %w", err)
	}
	if payload.Assets == nil {
		return IsolatedAccounts{}, fmt.Errorf("isolated accounts: %w: missing assets", ErrMalformedResponse)
	}
	return IsolatedAccounts{
		TotalConversionBalance:     payload.TotalConversionBalance,
		LiabilityConversionBalance: payload.LiabilityConversionBalance,
		Assets:                     *payload.Assets,
	}, nil
}

// AvailableBalance returns the available base-asset balance of the isolated
// account for symbol. A matching asset without a base-asset availableBalance
// is ErrMalformedResponse, never a zero balance.
func (c *Client) AvailableBalance(ctx context.Context, symbol string) (decimal.Decimal, error) {
	accounts, err := c.IsolatedAccounts(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, asset := range accounts.Assets {
		if asset.Symbol != symbol {
			continue
		}
		if asset.BaseAsset == nil {
			return decimal.Zero, fmt.Errorf("isolated accounts: %w: %s: missing baseAsset", ErrMalformedResponse, symbol)
		}
		if !asset.BaseAsset.AvailableBalance.Valid {
			return decimal.Zero, fmt.Errorf("isolated accounts: %w: %s: missing baseAsset.availableBalance", ErrMalformedResponse, symbol)
		}
		return asset.BaseAsset.AvailableBalance.Decimal, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
}
