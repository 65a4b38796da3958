package model

import (
	"slices"
	"strings"
)

// Timeframe is a symbolic lookback window.
type Timeframe string

const (
	OneDay      Timeframe = "1D"
	OneMonth    Timeframe = "1M"
	ThreeMonths Timeframe = "3M"
	SixMonths   Timeframe = "6M"
	OneYear     Timeframe = "1Y"
	ThreeYears  Timeframe = "3Y"
	FiveYears   Timeframe = "5Y"
)

// DefaultTimeframe is used whenever a request names no valid timeframe.
const DefaultTimeframe = OneMonth

var selectable = []Timeframe{OneMonth, ThreeMonths, SixMonths, OneYear, ThreeYears, FiveYears}

var labels = map[Timeframe]string{
	OneDay:      "1 Day",
	OneMonth:    "1 Month",
	ThreeMonths: "3 Months",
	SixMonths:   "6 Months",
	OneYear:     "1 Year",
	ThreeYears:  "3 Years",
	FiveYears:   "5 Years",
}

// Timeframes returns the user-selectable timeframes in display order.
// OneDay is excluded; it only backs the market value column.
func Timeframes() []Timeframe {
	return slices.Clone(selectable)
}

// ParseTimeframe matches s case-insensitively against the selectable set.
func ParseTimeframe(s string) (Timeframe, bool) {
	tf := Timeframe(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(selectable, tf) {
		return tf, true
	}
	return "", false
}

// Code is the lowercase short code used in upstream analytics keys, e.g. "1m".
func (tf Timeframe) Code() string {
	return strings.ToLower(string(tf))
}

func (tf Timeframe) Label() string {
	if l, ok := labels[tf]; ok {
		return l
	}
	return string(tf)
}
