package kucoin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarginOrderBodyFixedFields(t *testing.T) {
	for _, req := range []MarginOrderRequest{
		{Symbol: "ADA-USDT", Side: SideBuy, Size: decimal.NewFromInt(10), Leverage: 5},
		{Symbol: "BTC-USDT", Side: SideSell, Size: decimal.RequireFromString("0.001"), Leverage: 10, AutoRepay: true},
	} {
		data, err := json.Marshal(buildMarginOrderBody(req))
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, true, payload["isIsolated"])
		assert.Equal(t, "MARGIN_TRADE", payload["tradeType"])
		assert.Equal(t, "market", payload["type"])
		assert.Equal(t, true, payload["autoBorrow"])
		assert.Equal(t, string(req.Side), payload["side"])
		assert.Equal(t, req.Size.String(), payload["size"])
		assert.Equal(t, req.AutoRepay, payload["autoRepay"])
	}
}

func TestPlaceMarginOrderSignsBody(t *testing.T) {
	client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, marginOrderPath, r.URL.Path)
		assert.Equal(t, hmacBase64("secret", "1700000000000POST"+marginOrderPath+string(body)), r.Header.Get(HeaderAPISign))

		var payload struct {
			Leverage  string `json:"leverage"`
			Size      string `json:"size"`
			AutoRepay bool   `json:"autoRepay"`
			ClientOid string `json:"clientOid"`
		}
		if !assert.NoError(t, json.Unmarshal(body, &payload)) {
			return
		}
		assert.Equal(t, "5", payload.Leverage)
		assert.Equal(t, "10", payload.Size)
		assert.False(t, payload.AutoRepay)
		_, err = uuid.Parse(payload.ClientOid)
		assert.NoError(t, err, "expected generated UUID clientOid")

		writeJSON(w, http.StatusOK, `{"code":"200000","data":{"orderId":"abc","clientOid":"`+payload.ClientOid+`","borrowSize":"10","loanApplyId":"l1"}}`)
	})

	resp, err := client.PlaceMarginOrder(context.Background(), MarginOrderRequest{
		Symbol: "ADA-USDT",
		Side:   SideBuy,
		Size:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "abc", resp.Data.OrderID)
	assert.Equal(t, resp.Request.ClientOid, resp.Data.ClientOid)
	assert.Equal(t, DefaultLeverage, resp.Request.Leverage)
	assert.True(t, resp.Data.BorrowSize.Valid)
	_, hasMsg := resp.APIMessage()
	assert.False(t, hasMsg)
}

func TestPlaceMarginOrderKeepsClientOid(t *testing.T) {
	client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "my-oid", payload["clientOid"])
		writeJSON(w, http.StatusOK, `{"code":"200000","data":{"orderId":"abc","clientOid":"my-oid"}}`)
	})

	resp, err := client.PlaceMarginOrder(context.Background(), MarginOrderRequest{
		Symbol: "ADA-USDT", Side: SideSell, Size: decimal.NewFromInt(1), Leverage: 3, ClientOid: "my-oid",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-oid", resp.Request.ClientOid)
}

func TestPlaceMarginOrderAPIMessageIsSoftFailure(t *testing.T) {
	client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"code":"300000","msg":"Balance insufficient!"}`)
	})

	resp, err := client.PlaceMarginOrder(context.Background(), MarginOrderRequest{
		Symbol: "ADA-USDT", Side: SideBuy, Size: decimal.NewFromInt(10), Leverage: 5,
	})
	require.NoError(t, err)
	msg, ok := resp.APIMessage()
	assert.True(t, ok)
	assert.Equal(t, "Balance insufficient!", msg)
	assert.Nil(t, resp.Data)
}

func TestPlaceMarginOrderNon200IsHardFailure(t *testing.T) {
	client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `upstream down`)
	})

	resp, err := client.PlaceMarginOrder(context.Background(), MarginOrderRequest{
		Symbol: "ADA-USDT", Side: SideBuy, Size: decimal.NewFromInt(10), Leverage: 5,
	})
	assert.Nil(t, resp)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestPlaceMarginOrderCanceledContext(t *testing.T) {
	client, hits := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"code":"200000"}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.PlaceMarginOrder(ctx, MarginOrderRequest{Symbol: "ADA-USDT", Side: SideBuy, Size: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}
