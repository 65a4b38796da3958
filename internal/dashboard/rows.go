package dashboard

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"WatchBoard/internal/analytics"
	"WatchBoard/internal/model"
	"WatchBoard/internal/store"
)

// Row is one table line. Numeric fields are nil when the timeframe could
// not be resolved; the formatted fields then hold a placeholder.
type Row struct {
	ID           string          `json:"id"`
	ImageURL     string          `json:"image_url"`
	Manufacturer string          `json:"manufacturer"`
	ModelName    string          `json:"model_name"`
	Reference    string          `json:"reference_number"`
	Timeframe    model.Timeframe `json:"timeframe"`
	Resolved     bool            `json:"resolved"`

	MarketValue *decimal.Decimal `json:"market_value"`
	Open        *decimal.Decimal `json:"open"`
	High        *decimal.Decimal `json:"high"`
	Low         *decimal.Decimal `json:"low"`
	Close       *decimal.Decimal `json:"close"`
	Change      *decimal.Decimal `json:"change"`
	Percent     *decimal.Decimal `json:"percent"`

	Direction string    `json:"direction"`
	Color     string    `json:"color"`
	Display   Display   `json:"display"`
	Cached    bool      `json:"cached"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`

	set model.AnalyticsSet
}

// Display holds the formatted cells.
type Display struct {
	MarketValue string `json:"market_value"`
	Open        string `json:"open"`
	High        string `json:"high"`
	Low         string `json:"low"`
	Close       string `json:"close"`
	Change      string `json:"change"`
	Percent     string `json:"percent"`
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// buildRow derives the row of w for tf. The listed analytics win; the
// cached entry fills in when the list carried none.
func buildRow(w model.Watch, entry *model.CacheEntry, tf model.Timeframe) Row {
	row := Row{
		ID:           w.ID,
		ImageURL:     w.ImageURL,
		Manufacturer: w.Model.Manufacturer,
		ModelName:    w.Model.ModelName,
		Reference:    w.ReferenceNumber,
		Timeframe:    tf,
		set:          w.Analytics,
		Display: Display{
			MarketValue: analytics.Placeholder,
			Open:        analytics.Placeholder,
			High:        analytics.Placeholder,
			Low:         analytics.Placeholder,
			Close:       analytics.Placeholder,
			Change:      analytics.Placeholder,
			Percent:     analytics.Placeholder,
		},
	}
	if entry != nil {
		row.Cached = true
		row.FetchedAt = entry.FetchedAt
		if row.set.Len() == 0 {
			row.set = entry.Analytics
		}
		if row.ImageURL == "" {
			row.ImageURL = entry.Watch.ImageURL
		}
	}

	if mv, err := analytics.FieldValue(row.set, tf, analytics.FieldMarketValue); err == nil {
		row.MarketValue = ptr(mv)
		row.Display.MarketValue = analytics.FormatCurrency(mv)
	}

	sum, err := analytics.Summarize(row.set, tf)
	if err != nil {
		return row
	}
	rec := sum.Record
	row.Resolved = true
	row.Open, row.High, row.Low, row.Close = ptr(rec.Open), ptr(rec.High), ptr(rec.Low), ptr(rec.Close)
	row.Change = ptr(sum.Change)
	row.Direction = sum.Direction.String()
	row.Color = sum.Direction.Color()
	row.Display.Open = analytics.FormatCurrency(rec.Open)
	row.Display.High = analytics.FormatCurrency(rec.High)
	row.Display.Low = analytics.FormatCurrency(rec.Low)
	row.Display.Close = analytics.FormatCurrency(rec.Close)
	row.Display.Change = analytics.FormatCurrency(sum.Change)
	if sum.HasPercent {
		row.Percent = ptr(sum.Percent)
		row.Display.Percent = analytics.FormatPercent(sum.Percent)
	}
	return row
}

// BuildRows derives a row per listed watch, reading cached entries from st.
func BuildRows(watches []model.Watch, st store.Store, tf model.Timeframe, log *slog.Logger) []Row {
	rows := make([]Row, 0, len(watches))
	for _, w := range watches {
		entry, _ := store.Lookup(st, w.ID, log)
		rows = append(rows, buildRow(w, entry, tf))
	}
	return rows
}

// SortRows orders rows by field; unresolved rows stay at the end.
func SortRows(rows []Row, field analytics.Field, desc bool) {
	analytics.SortBy(rows, func(r Row) (decimal.Decimal, error) {
		return analytics.FieldValue(r.set, r.Timeframe, field)
	}, desc)
}

// Category is a dropdown filter option.
type Category string

const (
	CategoryAll     Category = "all"
	CategoryGainers Category = "gainers"
	CategoryLosers  Category = "losers"
	CategoryHot     Category = "hot"
	CategoryPicks   Category = "picks"
)

var categories = []Category{CategoryAll, CategoryGainers, CategoryLosers, CategoryHot, CategoryPicks}

func (c Category) Label() string {
	switch c {
	case CategoryAll:
		return "Select All"
	case CategoryGainers:
		return "Gainers"
	case CategoryLosers:
		return "Losers"
	case CategoryHot:
		return "Hot"
	case CategoryPicks:
		return "Our Picks"
	}
	return string(c)
}

// ParseCategories reads repeated or comma separated values. Unknown values
// are dropped; "all" anywhere selects everything.
func ParseCategories(values []string) []Category {
	var out []Category
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			c := Category(strings.ToLower(strings.TrimSpace(part)))
			if !slices.Contains(categories, c) {
				continue
			}
			if c == CategoryAll {
				return []Category{CategoryAll}
			}
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Badge is the count shown on the dropdown: "+n" below nine, "n+" from nine.
func Badge(n int) string {
	switch {
	case n <= 0:
		return ""
	case n < 9:
		return "+" + strconv.Itoa(n)
	default:
		return strconv.Itoa(n) + "+"
	}
}

// FilterRows keeps the rows matching any selected category. No selection
// or "all" keeps everything.
func FilterRows(rows []Row, cats []Category, picks []string, hotCount int) []Row {
	if len(cats) == 0 || slices.Contains(cats, CategoryAll) {
		return rows
	}
	keep := make(map[string]bool, len(rows))
	for _, c := range cats {
		switch c {
		case CategoryGainers:
			for _, r := range rows {
				if r.Resolved && r.Direction == analytics.Up.String() {
					keep[r.ID] = true
				}
			}
		case CategoryLosers:
			for _, r := range rows {
				if r.Resolved && r.Direction == analytics.Down.String() {
					keep[r.ID] = true
				}
			}
		case CategoryPicks:
			for _, r := range rows {
				if slices.Contains(picks, r.ID) {
					keep[r.ID] = true
				}
			}
		case CategoryHot:
			for _, id := range hottest(rows, hotCount) {
				keep[id] = true
			}
		}
	}
	out := make([]Row, 0, len(keep))
	for _, r := range rows {
		if keep[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// hottest returns the ids of the n rows with the largest absolute move.
func hottest(rows []Row, n int) []string {
	if n <= 0 {
		return nil
	}
	moving := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Percent != nil {
			moving = append(moving, r)
		}
	}
	analytics.SortBy(moving, func(r Row) (decimal.Decimal, error) {
		return r.Percent.Abs(), nil
	}, true)
	if len(moving) > n {
		moving = moving[:n]
	}
	ids := make([]string, len(moving))
	for i, r := range moving {
		ids[i] = r.ID
	}
	return ids
}
