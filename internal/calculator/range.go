package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"WatchBoard/internal/model"
)

// Range returns the highest and lowest price in points.
func Range(points []model.HistoryPoint) (high, low decimal.Decimal, err error) {
	if len(points) == 0 {
		return decimal.Zero, decimal.Zero, errors.New("no history points provided")
	}
	high, low = points[0].Price, points[0].Price
	for _, p := range points[1:] {
		high = decimal.Max(high, p.Price)
		low = decimal.Min(low, p.Price)
	}
	return high, low, nil
}

var half = decimal.RequireFromString("0.5")

// Position returns where current sits within [low, high], clamped to 0..1.
// A flat range is the midpoint.
func Position(current, high, low decimal.Decimal) (decimal.Decimal, error) {
	if high.Equal(low) {
		return half, nil
	}
	if high.LessThan(low) {
		return decimal.Zero, errors.New("high must be >= low")
	}
	pos := current.Sub(low).Div(high.Sub(low))
	if pos.IsNegative() {
		return decimal.Zero, nil
	}
	if pos.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1), nil
	}
	return pos, nil
}
