package kucoin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"kcbot/internal/md"

	"github.com/google/go-querystring/query"
)

const candlesPath = "/api/v1/market/candles"

// minCandleFields is the number of leading columns every row carries:
// time, open, close, high, low, volume.
const minCandleFields = 6

type candlesParam struct {
	Symbol  string `url:"symbol"`
	Type    string `url:"type"`
	StartAt int64  `url:"startAt"`
	EndAt   int64  `url:"endAt"`
}

// Candles fetches the last limit candles of the given granularity (seconds)
// ending now, sorted ascending by time. An unsupported granularity fails
// before any request is made.
func (c *Client) Candles(ctx context.Context, symbol string, granularity, limit int) (md.Candles, error) {
	klineType, err := KlineType(granularity)
	if err != nil {
		return nil, err
	}

	end := c.now().Unix()
	start := end - int64(limit)*int64(granularity)
	values, err := query.Values(candlesParam{
		Symbol:  symbol,
		Type:    klineType,
		StartAt: start,
		EndAt:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("encode candles query: %w", err)
	}

	var rows [][]string
	err = c.getJSON(ctx, candlesPath+"?"+values.Encode(), false, &rows)
	if errors.Is(err, errMissingData) {
		return nil, fmt.Errorf("%w for %s %s", ErrNoCandles, symbol, klineType)
	}
	if err != nil {
		return nil, fmt.Errorf("candles %s %s: %w", symbol, klineType, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w for %s %s", ErrNoCandles, symbol, klineType)
	}

	candles, err := parseCandles(rows)
	if err != nil {
		return nil, fmt.Errorf("candles %s %s: %w", symbol, klineType, err)
	}
	candles.SortByTime()
	return candles, nil
}

func parseCandles(rows [][]string) (md.Candles, error) {
	candles := make(md.Candles, 0, len(rows))
	for i, row := range rows {
		if len(row) < minCandleFields {
			return nil, fmt.Errorf("%w: row %d has %d fields, want at least %d", ErrMalformedResponse, i, len(row), minCandleFields)
		}
		seconds, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d time %q", ErrMalformedResponse, i, row[0])
		}
		var fields [minCandleFields - 1]float64
		for j := range fields {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d %q", ErrMalformedResponse, i, j+1, row[j+1])
			}
			fields[j] = v
		}
		candle := md.Candle{
			Time:   time.Unix(seconds, 0).UTC(),
			Open:   fields[0],
			Close:  fields[1],
			High:   fields[2],
			Low:    fields[3],
			Volume: fields[4],
		}
		if len(row) > minCandleFields {
			candle.Extra = append([]string(nil), row[minCandleFields:]...)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}
