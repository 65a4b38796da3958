// Package export writes cached watch history to Parquet files.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"WatchBoard/internal/model"
	"WatchBoard/internal/store"
)

// HistoryRecord is the Parquet schema of one history point.
type HistoryRecord struct {
	WatchID      string  `parquet:"watch_id"`
	Reference    string  `parquet:"reference"`
	Manufacturer string  `parquet:"manufacturer"`
	ModelName    string  `parquet:"model_name"`
	Timeframe    string  `parquet:"timeframe"`
	Day          string  `parquet:"day"`
	Price        float64 `parquet:"price"`
	FetchedAt    int64   `parquet:"fetched_at,timestamp(millisecond)"` // Unix ms
}

// Records flattens entries to one record per history point, in entry order.
func Records(entries []*model.CacheEntry) []HistoryRecord {
	var out []HistoryRecord
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, p := range e.History {
			out = append(out, HistoryRecord{
				WatchID:      e.Watch.ID,
				Reference:    e.Watch.ReferenceNumber,
				Manufacturer: e.Watch.Model.Manufacturer,
				ModelName:    e.Watch.Model.ModelName,
				Timeframe:    string(e.Timeframe),
				Day:          p.Day(),
				Price:        p.Price.InexactFloat64(),
				FetchedAt:    e.FetchedAt.UnixMilli(),
			})
		}
	}
	return out
}

// WriteHistory writes the history of entries to path, creating parent
// directories. It returns the number of rows written.
func WriteHistory(path string, entries []*model.CacheEntry) (int, error) {
	records := Records(entries)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(records), nil
}

// ReadHistory reads a file written by WriteHistory.
func ReadHistory(path string) ([]HistoryRecord, error) {
	rows, err := parquet.ReadFile[HistoryRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// CachedEntries returns the cache entry of every listed watch. Watches
// without a usable entry are skipped.
func CachedEntries(st store.Store, log *slog.Logger) ([]*model.CacheEntry, error) {
	watches, err := st.WatchList()
	if err != nil {
		return nil, fmt.Errorf("read watch list: %w", err)
	}
	entries := make([]*model.CacheEntry, 0, len(watches))
	for _, w := range watches {
		if e, ok := store.Lookup(st, w.ID, log); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
