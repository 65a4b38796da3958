package analytics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"WatchBoard/internal/model"
)

// Field is a sortable table column.
type Field string

const (
	FieldOpen        Field = "open"
	FieldHigh        Field = "high"
	FieldLow         Field = "low"
	FieldClose       Field = "close"
	FieldChange      Field = "change"
	FieldPercent     Field = "percent"
	FieldMarketValue Field = "market_value"
)

var fields = []Field{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldChange, FieldPercent, FieldMarketValue}

// ParseField matches s case-insensitively against the sortable columns.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(fields, f) {
		return f, true
	}
	return "", false
}

// FieldValue returns field f of the record resolved for tf. Market value
// is the 1-day close whatever tf is.
func FieldValue(set model.AnalyticsSet, tf model.Timeframe, f Field) (decimal.Decimal, error) {
	if f == FieldMarketValue {
		rec, err := Resolve(set, model.OneDay)
		if err != nil {
			return decimal.Zero, err
		}
		return rec.Close, nil
	}
	rec, err := Resolve(set, tf)
	if err != nil {
		return decimal.Zero, err
	}
	switch f {
	case FieldOpen:
		return rec.Open, nil
	case FieldHigh:
		return rec.High, nil
	case FieldLow:
		return rec.Low, nil
	case FieldClose:
		return rec.Close, nil
	case FieldChange:
		return Change(rec), nil
	case FieldPercent:
		return Percent(rec)
	}
	return decimal.Zero, fmt.Errorf("analytics: unknown field %q", f)
}

// SortBy stably orders rows by the value key returns. Rows whose key fails
// go last in either direction and keep their relative order.
func SortBy[T any](rows []T, key func(T) (decimal.Decimal, error), desc bool) {
	type sortKey struct {
		v  decimal.Decimal
		ok bool
	}
	keys := make([]sortKey, len(rows))
	idx := make([]int, len(rows))
	for i, r := range rows {
		v, err := key(r)
		keys[i] = sortKey{v: v, ok: err == nil}
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		ka, kb := keys[a], keys[b]
		switch {
		case !ka.ok && !kb.ok:
			return 0
		case !ka.ok:
			return 1
		case !kb.ok:
			return -1
		}
		c := ka.v.Cmp(kb.v)
		if desc {
			c = -c
		}
		return c
	})
	sorted := make([]T, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	copy(rows, sorted)
}
