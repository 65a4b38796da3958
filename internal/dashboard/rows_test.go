package dashboard

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"WatchBoard/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func listed(id, open, close string) model.Watch {
	rec := model.OHLC{Open: dec(open), High: dec(close), Low: dec(open), Close: dec(close)}
	return model.Watch{
		ID:              id,
		Model:           model.Descriptor{Manufacturer: "Maker", ModelName: "Model " + id},
		ReferenceNumber: "REF-" + id,
		Analytics: model.AnalyticsSet{
			WatchID: id,
			Entries: []model.AnalyticsEntry{{Key: "analytics_1m", Record: rec}},
		},
	}
}

func TestBadge(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "+1"},
		{8, "+8"},
		{9, "9+"},
		{12, "12+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Badge(tt.n), "Badge(%d)", tt.n)
	}
}

func TestParseCategories(t *testing.T) {
	assert.Equal(t, []Category{CategoryGainers, CategoryHot}, ParseCategories([]string{"Gainers,bogus", "hot", "gainers"}))
	assert.Equal(t, []Category{CategoryAll}, ParseCategories([]string{"losers", "ALL"}))
	assert.Empty(t, ParseCategories(nil))
}

func TestBuildRow_CachedFillsAnalytics(t *testing.T) {
	w := listed("a", "100", "90")
	entry := &model.CacheEntry{Utility: model.Utility{Watch: w, Analytics: w.Analytics}}
	w.Analytics = model.AnalyticsSet{}

	row := buildRow(w, entry, model.OneMonth)
	assert.True(t, row.Cached)
	assert.True(t, row.Resolved)
	assert.Equal(t, "down", row.Direction)
	assert.Equal(t, "#FF0000", row.Color)
	assert.Equal(t, "-$10.00", row.Display.Change)
	assert.Equal(t, "-10.00%", row.Display.Percent)
}

func TestBuildRow_ZeroOpen(t *testing.T) {
	row := buildRow(listed("z", "0", "10"), nil, model.OneMonth)
	assert.True(t, row.Resolved)
	assert.Nil(t, row.Percent)
	assert.Equal(t, "—", row.Display.Percent)
	assert.Equal(t, "$10.00", row.Display.Change)
}

func TestSortRows_UnresolvedLast(t *testing.T) {
	rows := []Row{
		buildRow(model.Watch{ID: "none"}, nil, model.OneMonth),
		buildRow(listed("lo", "100", "101"), nil, model.OneMonth),
		buildRow(listed("hi", "100", "150"), nil, model.OneMonth),
	}

	SortRows(rows, "percent", true)
	assert.Equal(t, []string{"hi", "lo", "none"}, rowIDs(rows))

	SortRows(rows, "percent", false)
	assert.Equal(t, []string{"lo", "hi", "none"}, rowIDs(rows))
}

func TestFilterRows(t *testing.T) {
	rows := []Row{
		buildRow(listed("up-small", "100", "101"), nil, model.OneMonth),
		buildRow(listed("down-big", "100", "50"), nil, model.OneMonth),
		buildRow(listed("up-big", "100", "180"), nil, model.OneMonth),
		buildRow(model.Watch{ID: "unresolved"}, nil, model.OneMonth),
	}

	tests := []struct {
		name string
		cats []Category
		want []string
	}{
		{"none", nil, []string{"up-small", "down-big", "up-big", "unresolved"}},
		{"all", []Category{CategoryAll, CategoryLosers}, []string{"up-small", "down-big", "up-big", "unresolved"}},
		{"gainers", []Category{CategoryGainers}, []string{"up-small", "up-big"}},
		{"losers", []Category{CategoryLosers}, []string{"down-big"}},
		{"hot", []Category{CategoryHot}, []string{"up-big"}},
		{"picks", []Category{CategoryPicks}, []string{"unresolved"}},
		{"union", []Category{CategoryLosers, CategoryPicks}, []string{"down-big", "unresolved"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRows(rows, tt.cats, []string{"unresolved"}, 1)
			assert.Equal(t, tt.want, rowIDs(got))
		})
	}
}

func TestHottestTakesLargestMoves(t *testing.T) {
	rows := []Row{
		buildRow(listed("a", "100", "101"), nil, model.OneMonth),
		buildRow(listed("b", "100", "40"), nil, model.OneMonth),
		buildRow(listed("c", "100", "130"), nil, model.OneMonth),
	}
	assert.Equal(t, []string{"b", "c"}, hottest(rows, 2))
	assert.Len(t, hottest(rows, 10), 3)
	assert.Empty(t, hottest(rows, 0))
}
