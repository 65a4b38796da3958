package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"WatchBoard/internal/calendar"
	"WatchBoard/internal/model"
	"WatchBoard/internal/store"
)

// Collector refreshes the watch list and every watch's history into the cache.
type Collector struct {
	Fetcher  Fetcher
	Store    store.Store
	Calendar *calendar.Calendar
	// MaxConcurrency bounds in-flight history requests; 0 means no bound.
	MaxConcurrency int

	log *slog.Logger
	now func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, st store.Store, cal *calendar.Calendar, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		Fetcher:  fetcher,
		Store:    st,
		Calendar: cal,
		log:      log,
		now:      time.Now,
	}
}

// RefreshReport summarizes one refresh run.
type RefreshReport struct {
	RunID     string            `json:"run_id"`
	Timeframe model.Timeframe   `json:"timeframe"`
	Start     string            `json:"start"`
	End       string            `json:"end"`
	Watches   int               `json:"watches"`
	Fetched   int               `json:"fetched"`
	Failed    map[string]string `json:"failed,omitempty"`
	StartedAt time.Time         `json:"started_at"`
	Elapsed   time.Duration     `json:"elapsed_ns"`
}

// Refresh fetches the suggested list, then the history of every listed
// watch concurrently. A failed watch is logged and reported but never stops
// the others; Refresh returns once every request has settled. Only a failed
// list fetch or a cancelled ctx is returned as an error.
func (c *Collector) Refresh(ctx context.Context, tf model.Timeframe) (*RefreshReport, error) {
	report := &RefreshReport{
		RunID:     uuid.NewString(),
		Timeframe: tf,
		Failed:    make(map[string]string),
		StartedAt: c.now(),
	}
	log := c.log.With("run_id", report.RunID, "timeframe", string(tf), "source", c.Fetcher.Name())

	watches, err := c.Fetcher.FetchSuggested(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch watch list: %w", err)
	}
	report.Watches = len(watches)
	if err := c.Store.PutWatchList(watches); err != nil {
		log.Warn("store watch list failed", "error", err)
	}

	report.Start, report.End = c.Calendar.Window(tf)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if c.MaxConcurrency > 0 {
		g.SetLimit(c.MaxConcurrency)
	}
	for _, w := range watches {
		if w.ID == "" {
			continue
		}
		g.Go(func() error {
			err := c.refreshWatch(gctx, w, tf, report.Start, report.End)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[w.ID] = err.Error()
				log.Warn("watch refresh failed", "watch_id", w.ID, "error", err)
			} else {
				report.Fetched++
			}
			// Failures stay local to their watch.
			return nil
		})
	}
	_ = g.Wait()

	report.Elapsed = c.now().Sub(report.StartedAt)
	log.Info("refresh finished",
		"watches", report.Watches,
		"fetched", report.Fetched,
		"failed", len(report.Failed),
		"window_start", report.Start,
		"window_end", report.End,
	)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("refresh cancelled: %w", err)
	}
	return report, nil
}

func (c *Collector) refreshWatch(ctx context.Context, w model.Watch, tf model.Timeframe, start, end string) error {
	u, err := c.Fetcher.FetchHistory(ctx, w.ID, start, end)
	if err != nil {
		return err
	}
	entry := &model.CacheEntry{
		Utility:   *u,
		Timeframe: tf,
		Start:     start,
		End:       end,
		FetchedAt: c.now(),
	}
	if entry.Watch.ID == "" {
		entry.Watch = w
	}
	if entry.Analytics.Len() == 0 {
		entry.Analytics = w.Analytics
	}
	if entry.Analytics.WatchID == "" {
		entry.Analytics.WatchID = w.ID
	}
	if err := c.Store.Put(w.ID, entry); err != nil {
		return fmt.Errorf("store entry: %w", err)
	}
	return nil
}
