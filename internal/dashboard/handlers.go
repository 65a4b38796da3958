package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"WatchBoard/internal/analytics"
	"WatchBoard/internal/calculator"
	"WatchBoard/internal/chart"
	"WatchBoard/internal/model"
	"WatchBoard/internal/store"
)

// tableQuery is the parsed state shared by the page and the JSON list.
type tableQuery struct {
	Timeframe  model.Timeframe
	Sort       analytics.Field
	Desc       bool
	Categories []Category
}

func parseTableQuery(r *http.Request, tf model.Timeframe) tableQuery {
	q := r.URL.Query()
	tq := tableQuery{Timeframe: tf}
	if f, ok := analytics.ParseField(q.Get("sort")); ok {
		tq.Sort = f
		tq.Desc = strings.EqualFold(q.Get("order"), "desc")
	}
	tq.Categories = ParseCategories(q["filter"])
	return tq
}

// rows builds, filters and sorts the table for tq.
func (s *Server) rows(tq tableQuery) []Row {
	rows := BuildRows(s.watchList(tq.Timeframe), s.store, tq.Timeframe, s.log)
	rows = FilterRows(rows, tq.Categories, s.opts.Picks, s.opts.HotCount)
	if tq.Sort != "" {
		SortRows(rows, tq.Sort, tq.Desc)
	}
	return rows
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tf := s.timeframe(r)
	s.selectTimeframe(tf)
	tq := parseTableQuery(r, tf)

	page := newPage(tq, s.rows(tq))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, page); err != nil {
		s.log.Warn("render page failed", "error", err)
	}
}

type watchesResponse struct {
	Timeframe model.Timeframe `json:"timeframe"`
	Count     int             `json:"count"`
	Rows      []Row           `json:"rows"`
}

func (s *Server) handleWatches(w http.ResponseWriter, r *http.Request) {
	tf := s.timeframe(r)
	s.selectTimeframe(tf)
	rows := s.rows(parseTableQuery(r, tf))
	writeJSON(w, watchesResponse{Timeframe: tf, Count: len(rows), Rows: rows})
}

type watchDetail struct {
	Row
	Window  window                   `json:"window"`
	Stats   *calculator.HistoryStats `json:"stats"`
	History []model.HistoryPoint     `json:"history"`
}

type window struct {
	Timeframe model.Timeframe `json:"timeframe"`
	Start     string          `json:"start"`
	End       string          `json:"end"`
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entry, err := s.store.Get(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("watch %s is not cached", id))
		return
	case err != nil:
		s.log.Warn("read cache entry failed", "watch_id", id, "error", err)
		writeError(w, http.StatusNotFound, fmt.Sprintf("watch %s is not cached", id))
		return
	}

	tf := s.timeframe(r)
	var stats *calculator.HistoryStats
	if hs, err := calculator.Stats(entry.History); err == nil {
		stats = &hs
	}
	writeJSON(w, watchDetail{
		Row:   buildRow(entry.Watch, entry, tf),
		Stats: stats,
		Window: window{
			Timeframe: entry.Timeframe,
			Start:     entry.Start,
			End:       entry.End,
		},
		History: entry.History,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	kind, ok := chart.ParseKind(strings.TrimSuffix(r.PathValue("file"), ".png"))
	if !ok || !strings.HasSuffix(r.PathValue("file"), ".png") {
		http.NotFound(w, r)
		return
	}
	entry, ok := store.Lookup(s.store, id, s.log)
	if !ok {
		http.NotFound(w, r)
		return
	}

	tf := s.timeframe(r)
	key := strings.Join([]string{id, string(kind), string(tf), entry.FetchedAt.Format(time.RFC3339Nano)}, "|")
	img, ok := s.charts.Get(key)
	if !ok {
		var err error
		img, err = chart.Render(kind, entry.Watch.DisplayName(), entry.History, chartDirection(entry, tf))
		if errors.Is(err, chart.ErrNotEnoughData) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			s.log.Warn("render chart failed", "watch_id", id, "kind", string(kind), "error", err)
			http.Error(w, "chart unavailable", http.StatusInternalServerError)
			return
		}
		s.charts.Set(key, img)
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=60")
	w.Write(img)
}

// chartDirection colors by the analytics for tf, falling back to the
// history's first and last prices when they do not resolve.
func chartDirection(entry *model.CacheEntry, tf model.Timeframe) analytics.Direction {
	if sum, err := analytics.Summarize(entry.Analytics, tf); err == nil {
		return sum.Direction
	}
	if n := len(entry.History); n > 1 && entry.History[n-1].Price.LessThan(entry.History[0].Price) {
		return analytics.Down
	}
	return analytics.Up
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	tf := s.timeframe(r)
	s.mu.Lock()
	s.selected = tf
	s.mu.Unlock()

	report, err := s.Refresh(r.Context(), tf)
	if err != nil {
		s.log.Warn("manual refresh failed", "timeframe", string(tf), "error", err)
		if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
			return
		}
		status := http.StatusBadGateway
		if report != nil {
			writeJSONStatus(w, status, report)
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, report)
}

type timeframeOption struct {
	Code     model.Timeframe `json:"code"`
	Label    string          `json:"label"`
	Selected bool            `json:"selected"`
}

func (s *Server) handleTimeframes(w http.ResponseWriter, r *http.Request) {
	current := s.CurrentTimeframe()
	opts := make([]timeframeOption, 0, len(model.Timeframes()))
	for _, tf := range model.Timeframes() {
		opts = append(opts, timeframeOption{Code: tf, Label: tf.Label(), Selected: tf == current})
	}
	writeJSON(w, opts)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := s.store.WatchList()
	writeJSON(w, map[string]any{
		"status":    "ok",
		"timeframe": s.CurrentTimeframe(),
		"cached":    err == nil,
		"clients":   s.hub.Len(),
	})
}
