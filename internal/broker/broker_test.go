package broker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kcbot/internal/kucoin"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rest := kucoin.New(srv.URL, kucoin.NewSigner("key", "secret", "pass"), kucoin.NewHTTPClient(true))
	return New(rest)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

const accountsBody = `{"code":"200000","data":{"assets":[
	{"symbol":"ADA-USDT","baseAsset":{"currency":"ADA","availableBalance":"12.75"},"quoteAsset":{"currency":"USDT","availableBalance":"3"}}
]}}`

func TestBalanceFound(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, accountsBody))

	result := client.Balance(context.Background(), "ADA-USDT")
	require.NoError(t, result.Err)
	assert.Equal(t, 12.75, result.Available)
	assert.Equal(t, 12.75, result.Masked())
}

func TestBalanceMasksToZero(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusForbidden, `{"code":"400007","msg":"Access denied"}`))
		result := client.Balance(context.Background(), "ADA-USDT")
		assert.Error(t, result.Err)
		assert.Equal(t, 0.0, result.Masked())
	})

	t.Run("symbol not found", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusOK, accountsBody))
		result := client.Balance(context.Background(), "DOGE-USDT")
		assert.ErrorIs(t, result.Err, kucoin.ErrSymbolNotFound)
		assert.Equal(t, 0.0, result.Masked())
	})

	t.Run("transport error", func(t *testing.T) {
		srv := httptest.NewServer(respond(http.StatusOK, accountsBody))
		url := srv.URL
		srv.Close()
		client := New(kucoin.New(url, kucoin.NewSigner("key", "secret", "pass"), kucoin.NewHTTPClient(true)))

		result := client.Balance(context.Background(), "ADA-USDT")
		assert.Error(t, result.Err)
		assert.Equal(t, 0.0, result.Masked())
	})

	t.Run("malformed json", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusOK, `{"code":"200000","data":`))
		result := client.Balance(context.Background(), "ADA-USDT")
		assert.ErrorIs(t, result.Err, kucoin.ErrMalformedResponse)
		assert.Equal(t, 0.0, result.Masked())
	})

	t.Run("missing base asset", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusOK, `{"code":"200000","data":{"assets":[{"symbol":"ADA-USDT"}]}}`))
		result := client.Balance(context.Background(), "ADA-USDT")
		assert.ErrorIs(t, result.Err, kucoin.ErrMalformedResponse)
		assert.Equal(t, 0.0, result.Masked())
	})
}

func TestCandlesPropagatesErrors(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"code":"200000","data":[]}`))

	_, err := client.Candles(context.Background(), "ADA-USDT", 900, 50)
	assert.ErrorIs(t, err, kucoin.ErrNoCandles)
}

func TestPlaceOrderMapsResponse(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"code":"200000","data":{"orderId":"o-1","clientOid":"c-1","borrowSize":"4.2"}}`))

	ref, err := client.PlaceOrder(context.Background(), OrderRequest{
		Symbol: "ADA-USDT", Side: kucoin.SideBuy, Size: decimal.NewFromInt(10), Leverage: 5, ClientOrderID: "c-1",
	})
	require.NoError(t, err)
	assert.Equal(t, OrderRef{ID: "o-1", ClientOrderID: "c-1", BorrowSize: "4.2"}, ref)
}

func TestPlaceOrderAPIMessage(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"code":"400100","msg":"Order size below the minimum requirement."}`))

	ref, err := client.PlaceOrder(context.Background(), OrderRequest{
		Symbol: "ADA-USDT", Side: kucoin.SideSell, Size: decimal.NewFromInt(1), Leverage: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Order size below the minimum requirement.", ref.APIMessage)
	assert.NotEmpty(t, ref.ClientOrderID)
}

func TestPlaceOrderHardFailure(t *testing.T) {
	client := newTestClient(t, respond(http.StatusBadGateway, `bad gateway`))

	_, err := client.PlaceOrder(context.Background(), OrderRequest{
		Symbol: "ADA-USDT", Side: kucoin.SideBuy, Size: decimal.NewFromInt(10), Leverage: 5,
	})
	var apiErr *kucoin.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
