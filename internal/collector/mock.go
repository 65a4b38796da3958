package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"WatchBoard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Watches []model.Watch
	// Utilities overrides the generated history of a watch.
	Utilities map[string]*model.Utility
	// Errors makes FetchHistory fail for the listed ids.
	Errors  map[string]error
	ListErr error
	// Delay is applied to every history call and honours ctx.
	Delay time.Duration
	// BasePrice seeds generated history.
	BasePrice float64

	mu    sync.Mutex
	calls []string
}

var _ Fetcher = (*MockFetcher)(nil)

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSuggested(ctx context.Context) ([]model.Watch, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]model.Watch(nil), m.Watches...), nil
}

func (m *MockFetcher) FetchHistory(ctx context.Context, watchID, start, end string) (*model.Utility, error) {
	m.mu.Lock()
	m.calls = append(m.calls, watchID)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, &RemoteFetchError{Endpoint: utilityPath, Err: ctx.Err()}
		}
	}
	if err, ok := m.Errors[watchID]; ok {
		return nil, &RemoteFetchError{Endpoint: utilityPath, StatusCode: 500, Body: "mock failure", Err: err}
	}
	if u, ok := m.Utilities[watchID]; ok {
		cp := *u
		return &cp, nil
	}
	for _, w := range m.Watches {
		if w.ID == watchID {
			return &model.Utility{
				Watch:     w,
				Analytics: w.Analytics,
				History:   generateMockHistory(m.BasePrice, start, end),
			}, nil
		}
	}
	return nil, &RemoteFetchError{Endpoint: utilityPath, Err: errors.New("unknown watch " + watchID)}
}

// Calls returns the ids FetchHistory was called with, in call order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func generateMockHistory(basePrice float64, start, end string) []model.HistoryPoint {
	if basePrice == 0 {
		basePrice = 10000
	}
	from, err1 := time.Parse(time.DateOnly, start)
	to, err2 := time.Parse(time.DateOnly, end)
	if err1 != nil || err2 != nil || to.Before(from) {
		return nil
	}
	var points []model.HistoryPoint
	for i, d := 0, from; !d.After(to); i, d = i+1, d.AddDate(0, 0, 1) {
		p := basePrice * (1 + float64(i%7-3)*0.002)
		points = append(points, model.HistoryPoint{
			Date:  d.Format(time.DateOnly),
			Price: decimal.NewFromFloat(p).Round(2),
		})
	}
	return points
}

// MockWatches builds n listed watches with rising 1-month analytics.
func MockWatches(n int) []model.Watch {
	watches := make([]model.Watch, n)
	for i := range watches {
		open := decimal.NewFromInt(int64(1000 * (i + 1)))
		last := open.Add(decimal.NewFromInt(int64(50 * (i + 1))))
		id := fmt.Sprintf("mock-%d", i+1)
		watches[i] = model.Watch{
			ID:              id,
			Model:           model.Descriptor{Manufacturer: "Mock", ModelName: fmt.Sprintf("Model %d", i+1)},
			ReferenceNumber: fmt.Sprintf("REF-%03d", i+1),
			Analytics: model.AnalyticsSet{
				WatchID: id,
				Entries: []model.AnalyticsEntry{
					{Key: "analytics_1d", Record: model.OHLC{Open: last, High: last, Low: last, Close: last}},
					{Key: "analytics_1m", Record: model.OHLC{Open: open, High: last, Low: open, Close: last}},
				},
			},
		}
	}
	return watches
}
