// Package analytics resolves per-timeframe OHLC records from an analytics
// set and derives the change, percent and direction shown for each watch.
package analytics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"WatchBoard/internal/model"
)

var (
	// ErrNotFound means the set holds no record for the timeframe.
	ErrNotFound = errors.New("analytics: no record for timeframe")
	// ErrDivisionByZero means a percent was requested for a zero open price.
	ErrDivisionByZero = errors.New("analytics: open price is zero")
)

// Key is the canonical upstream key of tf, e.g. "analytics_1m".
func Key(tf model.Timeframe) string {
	return "analytics_" + tf.Code()
}

// Resolve returns the record for tf. The canonical key is tried first; for
// keys upstream spelled differently the first key containing the short code,
// in the set's native order, wins.
func Resolve(set model.AnalyticsSet, tf model.Timeframe) (model.OHLC, error) {
	if tf == "" {
		return model.OHLC{}, fmt.Errorf("%w: empty timeframe", ErrNotFound)
	}
	if rec, ok := set.Get(Key(tf)); ok {
		return rec, nil
	}
	code := tf.Code()
	for _, e := range set.Entries {
		if strings.Contains(e.Key, code) {
			return e.Record, nil
		}
	}
	return model.OHLC{}, fmt.Errorf("%w: %s", ErrNotFound, tf)
}

// Change is close minus open.
func Change(rec model.OHLC) decimal.Decimal {
	return rec.Close.Sub(rec.Open)
}

// Percent is (close - open) / open as a ratio, so 0.1 means ten percent.
func Percent(rec model.OHLC) (decimal.Decimal, error) {
	if rec.Open.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return Change(rec).Div(rec.Open), nil
}

// Direction picks the display color of a record.
type Direction int

const (
	Up Direction = iota
	Down
)

// Classify is Down when close is below open and Up otherwise.
func Classify(rec model.OHLC) Direction {
	if Change(rec).IsNegative() {
		return Down
	}
	return Up
}

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Color is the hex chart color: red for Down, green for Up.
func (d Direction) Color() string {
	if d == Down {
		return "#FF0000"
	}
	return "#00FF00"
}

// Summary is everything the table shows for one watch and timeframe.
type Summary struct {
	Record     model.OHLC
	Change     decimal.Decimal
	Percent    decimal.Decimal
	HasPercent bool
	Direction  Direction
}

// Summarize resolves tf and derives the display fields. A zero open price
// leaves HasPercent false instead of failing.
func Summarize(set model.AnalyticsSet, tf model.Timeframe) (Summary, error) {
	rec, err := Resolve(set, tf)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		Record:    rec,
		Change:    Change(rec),
		Direction: Classify(rec),
	}
	if pct, err := Percent(rec); err == nil {
		s.Percent = pct
		s.HasPercent = true
	}
	return s, nil
}
