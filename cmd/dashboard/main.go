package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WatchBoard/internal/calendar"
	"WatchBoard/internal/collector"
	"WatchBoard/internal/config"
	"WatchBoard/internal/dashboard"
	"WatchBoard/internal/logging"
	"WatchBoard/internal/scheduler"
	"WatchBoard/internal/store"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		slog.Warn("load .env failed", "error", err)
	}

	// Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config validation", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)
	log.Info("WatchBoard starting", "addr", cfg.Server.Addr)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("load timezone", "error", err)
		os.Exit(1)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.API.Mock {
		fetcher = &collector.MockFetcher{Watches: collector.MockWatches(12), BasePrice: 12000}
	} else {
		fetcher = collector.NewHorodexFetcher(cfg.API.BaseURL, cfg.API.Token, cfg.Proxy,
			collector.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
			collector.WithLogger(log),
		)
	}
	log.Info("data source", "name", fetcher.Name())

	// Init cache
	var st store.Store
	if cfg.Cache.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Cache.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite cache failed, using memory", "error", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
		}
	} else {
		st = store.NewMemoryStore()
	}
	defer st.Close()

	col := collector.NewCollector(fetcher, st, calendar.New(loc), log)
	col.MaxConcurrency = cfg.API.MaxConcurrency

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := dashboard.New(ctx, st, col, dashboard.Options{
		DefaultTimeframe: cfg.DefaultTimeframe(),
		Picks:            cfg.Dashboard.Picks,
		HotCount:         cfg.Dashboard.HotCount,
		ChartTTL:         time.Duration(cfg.Dashboard.ChartCacheSeconds) * time.Second,
	}, log)

	// Scheduled refreshes go through the server so they share runs with
	// page-triggered ones and reach websocket clients.
	sched := scheduler.NewScheduler(ctx, srv, srv.CurrentTimeframe, log)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Error("register cron tasks", "error", err)
		os.Exit(1)
	}
	sched.Start()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, refreshing now")
		go sched.RunNow()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	log.Info("WatchBoard is running. Press Ctrl+C to stop.")

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "error", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	sched.Stop()
	srv.Wait()
	log.Info("WatchBoard stopped")
}
