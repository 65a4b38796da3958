package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WatchBoard/internal/calendar"
	"WatchBoard/internal/collector"
	"WatchBoard/internal/model"
	"WatchBoard/internal/store"
)

func fixedCalendar() *calendar.Calendar {
	now := func() time.Time { return time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC) }
	return calendar.NewWithClock(now, time.UTC)
}

type fixture struct {
	srv   *Server
	mock  *collector.MockFetcher
	store store.Store
}

func newFixture(t *testing.T, mock *collector.MockFetcher) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	col := collector.NewCollector(mock, st, fixedCalendar(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	srv := New(ctx, st, col, Options{
		DefaultTimeframe: model.OneMonth,
		Picks:            []string{"mock-2"},
		HotCount:         1,
		ChartTTL:         time.Minute,
	}, nil)
	t.Cleanup(func() {
		cancel()
		srv.Wait()
	})
	return &fixture{srv: srv, mock: mock, store: st}
}

// seeded returns a fixture whose cache already holds a 1M refresh.
func seeded(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, &collector.MockFetcher{Watches: collector.MockWatches(3)})
	_, err := f.srv.Refresh(context.Background(), model.OneMonth)
	require.NoError(t, err)
	return f
}

func (f *fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeRows(t *testing.T, rec *httptest.ResponseRecorder) watchesResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp watchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func rowIDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestWatches_SortedByClose(t *testing.T) {
	f := seeded(t)

	resp := decodeRows(t, f.do(t, http.MethodGet, "/api/watches?tf=1M&sort=close&order=desc"))
	assert.Equal(t, model.OneMonth, resp.Timeframe)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, []string{"mock-3", "mock-2", "mock-1"}, rowIDs(resp.Rows))

	first := resp.Rows[0]
	assert.True(t, first.Resolved)
	assert.Equal(t, "$3,150.00", first.Display.Close)
	assert.Equal(t, "$3,150.00", first.Display.MarketValue)
	assert.Equal(t, "5.00%", first.Display.Percent)
	assert.Equal(t, "up", first.Direction)
	assert.Equal(t, "#00FF00", first.Color)
	assert.True(t, first.Cached)

	resp = decodeRows(t, f.do(t, http.MethodGet, "/api/watches?tf=1M&sort=close&order=asc"))
	assert.Equal(t, []string{"mock-1", "mock-2", "mock-3"}, rowIDs(resp.Rows))
}

func TestWatches_Filter(t *testing.T) {
	f := seeded(t)

	resp := decodeRows(t, f.do(t, http.MethodGet, "/api/watches?filter=picks"))
	assert.Equal(t, []string{"mock-2"}, rowIDs(resp.Rows))

	resp = decodeRows(t, f.do(t, http.MethodGet, "/api/watches?filter=losers"))
	assert.Empty(t, resp.Rows)

	resp = decodeRows(t, f.do(t, http.MethodGet, "/api/watches?filter=losers,gainers"))
	assert.Len(t, resp.Rows, 3)
}

func TestWatches_UnresolvedTimeframeRendersPlaceholder(t *testing.T) {
	f := seeded(t)

	resp := decodeRows(t, f.do(t, http.MethodGet, "/api/watches?tf=5Y"))
	require.Len(t, resp.Rows, 3)
	for _, r := range resp.Rows {
		assert.False(t, r.Resolved)
		assert.Nil(t, r.Open)
		assert.Equal(t, "—", r.Display.Open)
		assert.Equal(t, "—", r.Display.Percent)
		// Market value comes from the 1-day analytics.
		assert.NotNil(t, r.MarketValue)
	}
}

func TestWatch_Detail(t *testing.T) {
	f := seeded(t)

	rec := f.do(t, http.MethodGet, "/api/watches/mock-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail watchDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "mock-1", detail.ID)
	assert.Equal(t, "2024-01-01", detail.Window.Start)
	assert.Equal(t, "2024-01-31", detail.Window.End)
	assert.Len(t, detail.History, 31)
	assert.Equal(t, "$1,050.00", detail.Display.Close)
	require.NotNil(t, detail.Stats)
	assert.Equal(t, 31, detail.Stats.Points)
	assert.NotNil(t, detail.Stats.SMA)
}

func TestWatch_NotCached(t *testing.T) {
	f := seeded(t)

	rec := f.do(t, http.MethodGet, "/api/watches/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not cached")
}

func TestChart(t *testing.T) {
	f := seeded(t)

	rec := f.do(t, http.MethodGet, "/chart/mock-1/spark.png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
	assert.Equal(t, 1, f.srv.charts.Len())

	rec = f.do(t, http.MethodGet, "/chart/mock-1/spark.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.srv.charts.Len(), "second request should hit the image cache")

	rec = f.do(t, http.MethodGet, "/chart/mock-1/detail.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.srv.charts.Len())
}

func TestChart_NotFound(t *testing.T) {
	f := seeded(t)

	for _, target := range []string{
		"/chart/unknown/spark.png",
		"/chart/mock-1/huge.png",
		"/chart/mock-1/spark.gif",
	} {
		rec := f.do(t, http.MethodGet, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

func TestChart_NotEnoughData(t *testing.T) {
	f := seeded(t)
	entry, err := f.store.Get("mock-1")
	require.NoError(t, err)
	entry.History = entry.History[:1]
	require.NoError(t, f.store.Put("mock-1", entry))

	rec := f.do(t, http.MethodGet, "/chart/mock-1/detail.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartDirection(t *testing.T) {
	entry := &model.CacheEntry{}
	entry.History = []model.HistoryPoint{
		{Date: "2024-01-01", Price: dec("200")},
		{Date: "2024-01-02", Price: dec("150")},
	}
	assert.Equal(t, "down", chartDirection(entry, model.OneMonth).String())

	entry.Analytics = model.AnalyticsSet{Entries: []model.AnalyticsEntry{
		{Key: "analytics_1m", Record: model.OHLC{Open: dec("100"), High: dec("120"), Low: dec("90"), Close: dec("110")}},
	}}
	assert.Equal(t, "up", chartDirection(entry, model.OneMonth).String())
}

func TestRefreshEndpoint(t *testing.T) {
	f := newFixture(t, &collector.MockFetcher{Watches: collector.MockWatches(2)})

	rec := f.do(t, http.MethodPost, "/api/refresh?tf=3M")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report collector.RefreshReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, model.ThreeMonths, report.Timeframe)
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, model.ThreeMonths, f.srv.CurrentTimeframe())

	entry, err := f.store.Get("mock-1")
	require.NoError(t, err)
	assert.Equal(t, model.ThreeMonths, entry.Timeframe)
}

func TestRefreshEndpoint_ListFailure(t *testing.T) {
	f := newFixture(t, &collector.MockFetcher{ListErr: errors.New("upstream down")})

	rec := f.do(t, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream down")
}

func TestRefreshEndpoint_MethodNotAllowed(t *testing.T) {
	f := seeded(t)
	rec := f.do(t, http.MethodGet, "/api/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRefresh_Deduplicated(t *testing.T) {
	mock := &collector.MockFetcher{Watches: collector.MockWatches(3), Delay: 100 * time.Millisecond}
	f := newFixture(t, mock)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.srv.Refresh(context.Background(), model.OneMonth)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, mock.Calls(), 3, "concurrent refreshes of one timeframe should share a run")
}

func TestTimeframeChangeTriggersRefresh(t *testing.T) {
	f := seeded(t)
	before := len(f.mock.Calls())

	decodeRows(t, f.do(t, http.MethodGet, "/api/watches?tf=6M"))
	f.srv.Wait()

	assert.Equal(t, model.SixMonths, f.srv.CurrentTimeframe())
	assert.Equal(t, before+3, len(f.mock.Calls()))
	entry, err := f.store.Get("mock-1")
	require.NoError(t, err)
	assert.Equal(t, model.SixMonths, entry.Timeframe)

	// Same timeframe again: nothing new.
	decodeRows(t, f.do(t, http.MethodGet, "/api/watches?tf=6M"))
	f.srv.Wait()
	assert.Equal(t, before+3, len(f.mock.Calls()))
}

func TestEmptyCacheStartsRefresh(t *testing.T) {
	f := newFixture(t, &collector.MockFetcher{Watches: collector.MockWatches(2)})

	resp := decodeRows(t, f.do(t, http.MethodGet, "/api/watches"))
	assert.Empty(t, resp.Rows)
	f.srv.Wait()

	list, err := f.store.WatchList()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	resp = decodeRows(t, f.do(t, http.MethodGet, "/api/watches"))
	assert.Len(t, resp.Rows, 2)
}

func TestIndex(t *testing.T) {
	f := seeded(t)

	rec := f.do(t, http.MethodGet, "/?sort=percent&order=desc&filter=gainers")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	for _, want := range []string{
		"WATCHES.IO", "MARKETPLACE", "ACCOUNT",
		"Market Value", "REF-001", "Model 3",
		"/chart/mock-1/spark.png?tf=1M",
		"/chart/mock-1/detail.png?tf=1M",
		`<span class="badge">&#43;1</span>`,
		"<td><strong>Mock</strong><br>Model 1</td>",
	} {
		assert.Contains(t, body, want)
	}
}

func TestIndex_BadgeCountsFilters(t *testing.T) {
	f := seeded(t)

	rec := f.do(t, http.MethodGet, "/?filter=gainers&filter=losers&filter=hot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="badge">&#43;3</span>`)

	rec = f.do(t, http.MethodGet, "/?filter=all")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `class="badge"`)
}

func TestIndex_Empty(t *testing.T) {
	f := newFixture(t, &collector.MockFetcher{})

	rec := f.do(t, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No watches cached yet")
	f.srv.Wait()
}

func TestTimeframesAndHealth(t *testing.T) {
	f := seeded(t)

	rec := f.do(t, http.MethodGet, "/api/timeframes")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts []timeframeOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	require.Len(t, opts, 6)
	assert.Equal(t, model.OneMonth, opts[0].Code)
	assert.True(t, opts[0].Selected)

	rec = f.do(t, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cached":true`)
}
