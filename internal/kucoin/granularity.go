package kucoin

import (
	"fmt"
	"sort"
)

var klineTypes = map[int]string{
	60:     "1min",
	180:    "3min",
	300:    "5min",
	900:    "15min",
	1800:   "30min",
	3600:   "1hour",
	7200:   "2hour",
	14400:  "4hour",
	21600:  "6hour",
	28800:  "8hour",
	43200:  "12hour",
	86400:  "1day",
	604800: "1week",
}

// KlineType maps a granularity in seconds to the candle type label the
// exchange expects.
func KlineType(granularity int) (string, error) {
	label, ok := klineTypes[granularity]
	if !ok {
		return "", fmt.Errorf("%w %d, valid options are %v", ErrInvalidGranularity, granularity, Granularities())
	}
	return label, nil
}

// Granularities lists the supported granularities in ascending order.
func Granularities() []int {
	out := make([]int, 0, len(klineTypes))
	for g := range klineTypes {
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}
