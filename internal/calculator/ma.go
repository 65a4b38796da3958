package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"WatchBoard/internal/model"
)

// SMA computes the simple moving average of the last period prices.
func SMA(prices []decimal.Decimal, period int) (decimal.Decimal, error) {
	if period <= 0 {
		return decimal.Zero, errors.New("period must be positive")
	}
	if len(prices) < period {
		return decimal.Zero, errors.New("not enough data for SMA calculation")
	}
	return decimal.Avg(prices[len(prices)-period], prices[len(prices)-period+1:]...), nil
}

func extractPrices(points []model.HistoryPoint) []decimal.Decimal {
	prices := make([]decimal.Decimal, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	return prices
}
