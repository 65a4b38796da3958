// Package calculator derives summary statistics from a watch's daily price
// history.
package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"WatchBoard/internal/model"
)

const (
	SMAPeriod = 7
	RSIPeriod = 14
)

// HistoryStats summarizes a price history.
type HistoryStats struct {
	Points int             `json:"points"`
	First  decimal.Decimal `json:"first"`
	Last   decimal.Decimal `json:"last"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	// Position is where Last sits between Low and High, 0 to 1.
	Position decimal.Decimal `json:"position"`
	// SMA is nil when the history is shorter than SMAPeriod.
	SMA *decimal.Decimal `json:"sma_7d"`
	RSI float64          `json:"rsi_14d"`
}

// Stats computes HistoryStats for points, oldest first.
func Stats(points []model.HistoryPoint) (HistoryStats, error) {
	if len(points) == 0 {
		return HistoryStats{}, errors.New("no history points provided")
	}
	high, low, err := Range(points)
	if err != nil {
		return HistoryStats{}, err
	}
	last := points[len(points)-1].Price
	pos, err := Position(last, high, low)
	if err != nil {
		return HistoryStats{}, err
	}
	prices := extractPrices(points)
	s := HistoryStats{
		Points:   len(points),
		First:    points[0].Price,
		Last:     last,
		High:     high,
		Low:      low,
		Position: pos,
	}
	if sma, err := SMA(prices, SMAPeriod); err == nil {
		s.SMA = &sma
	}
	if s.RSI, err = RSI(prices, RSIPeriod); err != nil {
		return HistoryStats{}, err
	}
	return s, nil
}
