package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OHLC is the open/high/low/close summary of one analytics period, in USD.
// Upstream sends numbers or numeric strings; both decode.
type OHLC struct {
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// HistoryPoint is a single day's price observation.
type HistoryPoint struct {
	Date  string          `json:"related_day"`
	Price decimal.Decimal `json:"price"`
}

// Day returns the calendar day of the point, dropping any time component.
func (p HistoryPoint) Day() string {
	if len(p.Date) > 10 {
		return p.Date[:10]
	}
	return p.Date
}

// Time parses the calendar day. The zero time is returned for malformed dates.
func (p HistoryPoint) Time() time.Time {
	t, err := time.Parse(time.DateOnly, p.Day())
	if err != nil {
		return time.Time{}
	}
	return t
}
