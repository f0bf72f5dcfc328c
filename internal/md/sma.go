package md

import "errors"

var (
	ErrInvalidWindow = errors.New("window must be positive")
	ErrNotEnoughData = errors.New("not enough data for SMA")
)

const DefaultSMAWindow = 20

// SMAValue is one point of an SMA series. Valid is false until a full window
// of closes is available.
type SMAValue struct {
	Value float64
	Valid bool
}

// SMA computes the trailing simple moving average of the close column,
// one value per candle.
func SMA(candles Candles, window int) ([]SMAValue, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	out := make([]SMAValue, len(candles))
	buffer := NewRingBuffer(window)
	for i, candle := range candles {
		buffer.Add(candle.Close)
		mean, err := buffer.Mean()
		if err != nil {
			continue
		}
		out[i] = SMAValue{Value: mean, Valid: true}
	}
	return out, nil
}

// LastSMA returns the SMA of the most recent window of closes.
func LastSMA(candles Candles, window int) (float64, error) {
	series, err := SMA(candles, window)
	if err != nil {
		return 0, err
	}
	if len(series) == 0 || !series[len(series)-1].Valid {
		return 0, ErrNotEnoughData
	}
	return series[len(series)-1].Value, nil
}
