package md

import (
	"fmt"
	"sort"
	"time"
)

type Candle struct {
	Time   time.Time
	Open   float64
	Close  float64
	High   float64
	Low    float64
	Volume float64
	// Extra holds vendor columns past volume, in the order they were received.
	Extra []string
}

// ExtraColumn returns the synthetic name of the i-th extra vendor column.
func ExtraColumn(i int) string {
	return fmt.Sprintf("extra_col_%d", i)
}

// ExtraValue looks up an extra vendor column by its synthetic name.
func (c Candle) ExtraValue(name string) (string, bool) {
	for i, v := range c.Extra {
		if ExtraColumn(i) == name {
			return v, true
		}
	}
	return "", false
}

// Candles is a time series of candles.
type Candles []Candle

func (c Candles) SortByTime() {
	sort.SliceStable(c, func(i, j int) bool {
		return c[i].Time.Before(c[j].Time)
	})
}

func (c Candles) Closes() []float64 {
	closes := make([]float64, len(c))
	for i, candle := range c {
		closes[i] = candle.Close
	}
	return closes
}

func (c Candles) Last() (Candle, bool) {
	if len(c) == 0 {
		return Candle{}, false
	}
	return c[len(c)-1], true
}
