// Package dashboard serves the watch table, its JSON API, chart images and
// live refresh events.
package dashboard

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"WatchBoard/internal/chart"
	"WatchBoard/internal/collector"
	"WatchBoard/internal/model"
	"WatchBoard/internal/store"
)

// Refresher reloads the cache for a timeframe.
type Refresher interface {
	Refresh(ctx context.Context, tf model.Timeframe) (*collector.RefreshReport, error)
}

// Options tune presentation.
type Options struct {
	DefaultTimeframe model.Timeframe
	// Picks are the watch ids listed under "Our Picks".
	Picks []string
	// HotCount is how many of the largest movers count as "Hot".
	HotCount int
	ChartTTL time.Duration
}

// Server is the dashboard HTTP surface.
type Server struct {
	store     store.Store
	refresher Refresher
	opts      Options
	charts    *chart.Cache
	hub       *Hub
	log       *slog.Logger

	// ctx bounds background refreshes; it outlives any single request.
	ctx   context.Context
	group singleflight.Group
	bg    sync.WaitGroup

	mu       sync.Mutex
	selected model.Timeframe
}

// New creates a Server. Background refreshes run under ctx.
func New(ctx context.Context, st store.Store, r Refresher, opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if _, ok := model.ParseTimeframe(string(opts.DefaultTimeframe)); !ok {
		opts.DefaultTimeframe = model.DefaultTimeframe
	}
	return &Server{
		store:     st,
		refresher: r,
		opts:      opts,
		charts:    chart.NewCache(opts.ChartTTL),
		hub:       NewHub(log),
		log:       log,
		ctx:       ctx,
		selected:  opts.DefaultTimeframe,
	}
}

// RegisterRoutes registers all routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/watches", s.handleWatches)
	mux.HandleFunc("GET /api/watches/{id}", s.handleWatch)
	mux.HandleFunc("GET /chart/{id}/{file}", s.handleChart)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/timeframes", s.handleTimeframes)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.logRequests(mux)
}

// CurrentTimeframe is the timeframe last selected on the dashboard.
func (s *Server) CurrentTimeframe() model.Timeframe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Hub exposes the event hub.
func (s *Server) Hub() *Hub { return s.hub }

// Refresh reloads the cache for tf. Concurrent calls for the same timeframe
// share one run. The run itself is bound to the server context, so a caller
// giving up does not cancel it for the others.
func (s *Server) Refresh(ctx context.Context, tf model.Timeframe) (*collector.RefreshReport, error) {
	ch := s.group.DoChan(string(tf), func() (any, error) {
		report, err := s.refresher.Refresh(s.ctx, tf)
		if report != nil {
			s.hub.Broadcast(Event{
				Type:      "refreshed",
				Timeframe: tf,
				RunID:     report.RunID,
				Fetched:   report.Fetched,
				Failed:    len(report.Failed),
				At:        time.Now(),
			})
		}
		return report, err
	})
	select {
	case res := <-ch:
		report, _ := res.Val.(*collector.RefreshReport)
		return report, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// selectTimeframe records tf as the dashboard's timeframe and refreshes
// in the background when it changed.
func (s *Server) selectTimeframe(tf model.Timeframe) {
	s.mu.Lock()
	changed := s.selected != tf
	s.selected = tf
	s.mu.Unlock()
	if changed {
		s.refreshInBackground(tf, "timeframe changed")
	}
}

func (s *Server) refreshInBackground(tf model.Timeframe, reason string) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		s.log.Info("background refresh", "timeframe", string(tf), "reason", reason)
		if _, err := s.Refresh(s.ctx, tf); err != nil {
			s.log.Warn("background refresh failed", "timeframe", string(tf), "error", err)
		}
	}()
}

// Wait blocks until background refreshes have returned.
func (s *Server) Wait() {
	s.bg.Wait()
}

// watchList returns the cached list. An empty cache starts a refresh.
func (s *Server) watchList(tf model.Timeframe) []model.Watch {
	watches, err := s.store.WatchList()
	if err == nil {
		return watches
	}
	var perr *store.ParseError
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.refreshInBackground(tf, "empty cache")
	case errors.As(err, &perr):
		s.log.Warn("discarding malformed watch list", "error", err)
		s.refreshInBackground(tf, "malformed cache")
	default:
		s.log.Warn("read watch list failed", "error", err)
	}
	return nil
}

// timeframe reads ?tf=, falling back to the current selection.
func (s *Server) timeframe(r *http.Request) model.Timeframe {
	if tf, ok := model.ParseTimeframe(r.URL.Query().Get("tf")); ok {
		return tf
	}
	return s.CurrentTimeframe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"elapsed", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack passes the connection through for websocket upgrades.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
