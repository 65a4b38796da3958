package analytics

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"WatchBoard/internal/model"
)

type row struct {
	id  string
	set model.AnalyticsSet
}

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}

func TestSortByFieldUnresolvedLast(t *testing.T) {
	rows := []row{
		{"a", set(entry("analytics_1m", ohlc(100, 130, 90, 120)))},
		{"missing", set(entry("analytics_1y", ohlc(1, 1, 1, 1)))},
		{"b", set(entry("analytics_1m", ohlc(100, 105, 80, 90)))},
		{"zero", set(entry("analytics_1m", ohlc(0, 1, 0, 1)))},
		{"c", set(entry("analytics_1m", ohlc(100, 110, 95, 105)))},
	}
	key := func(r row) (decimal.Decimal, error) {
		return FieldValue(r.set, model.OneMonth, FieldPercent)
	}

	SortBy(rows, key, false)
	if got, want := ids(rows), []string{"b", "c", "a", "missing", "zero"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ascending: expected %v, got %v", want, got)
	}

	SortBy(rows, key, true)
	if got, want := ids(rows), []string{"a", "c", "b", "missing", "zero"}; !reflect.DeepEqual(got, want) {
		t.Errorf("descending: expected %v, got %v", want, got)
	}
}

func TestSortByStable(t *testing.T) {
	rows := []row{
		{"x", set(entry("analytics_1m", ohlc(1, 5, 1, 2)))},
		{"y", set(entry("analytics_1m", ohlc(1, 5, 1, 3)))},
		{"z", set(entry("analytics_1m", ohlc(1, 5, 1, 4)))},
	}
	SortBy(rows, func(r row) (decimal.Decimal, error) {
		return FieldValue(r.set, model.OneMonth, FieldHigh)
	}, false)
	if got, want := ids(rows), []string{"x", "y", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected input order for equal keys %v, got %v", want, got)
	}
}

func TestFieldValueMarketValue(t *testing.T) {
	s := set(
		entry("analytics_1d", ohlc(10, 12, 9, 11)),
		entry("analytics_1m", ohlc(8, 12, 7, 11)),
	)
	v, err := FieldValue(s, model.OneMonth, FieldMarketValue)
	if err != nil {
		t.Fatalf("FieldValue: %v", err)
	}
	if !v.Equal(decimal.NewFromInt(11)) {
		t.Errorf("expected 11, got %s", v)
	}
	_, err = FieldValue(set(entry("analytics_1m", ohlc(1, 1, 1, 1))), model.OneMonth, FieldMarketValue)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound without a 1d record, got %v", err)
	}
}

func TestParseField(t *testing.T) {
	if f, ok := ParseField(" Percent "); !ok || f != FieldPercent {
		t.Errorf("expected percent, got %q %v", f, ok)
	}
	if _, ok := ParseField("volume"); ok {
		t.Errorf("expected volume to be rejected")
	}
}
