// Command export writes the cached watch history to a Parquet file.
//
// Usage:
//
//	export [-refresh] [-tf 3M] [-out data/history.parquet]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WatchBoard/internal/calendar"
	"WatchBoard/internal/collector"
	"WatchBoard/internal/config"
	"WatchBoard/internal/export"
	"WatchBoard/internal/logging"
	"WatchBoard/internal/model"
	"WatchBoard/internal/store"
)

func main() {
	refresh := flag.Bool("refresh", false, "refresh the cache from the API before exporting")
	tfFlag := flag.String("tf", "", "timeframe to refresh (default: dashboard.default_timeframe)")
	out := flag.String("out", "data/history.parquet", "output Parquet file")
	flag.Parse()

	if err := config.LoadDotenv(); err != nil {
		slog.Warn("load .env failed", "error", err)
	}
	cfg, err := config.Load(config.Path())
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	var st store.Store
	if cfg.Cache.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Cache.SQLitePath, log)
		if err != nil {
			log.Error("open cache", "error", err)
			os.Exit(1)
		}
		st = ss
	} else {
		if !*refresh {
			log.Error("cache.sqlite_path is not set; nothing to export without -refresh")
			os.Exit(1)
		}
		st = store.NewMemoryStore()
	}
	defer st.Close()

	if *refresh {
		if err := cfg.Validate(); err != nil {
			log.Error("config validation", "error", err)
			os.Exit(1)
		}
		tf := cfg.DefaultTimeframe()
		if *tfFlag != "" {
			parsed, ok := model.ParseTimeframe(*tfFlag)
			if !ok {
				log.Error("unknown timeframe", "tf", *tfFlag, "valid", model.Timeframes())
				os.Exit(1)
			}
			tf = parsed
		}
		if err := runRefresh(cfg, st, tf, log); err != nil {
			log.Error("refresh", "error", err)
			os.Exit(1)
		}
	}

	entries, err := export.CachedEntries(st, log)
	if err != nil {
		log.Error("read cache", "error", err)
		os.Exit(1)
	}
	n, err := export.WriteHistory(*out, entries)
	if err != nil {
		log.Error("export", "error", err)
		os.Exit(1)
	}
	log.Info("export finished", "path", *out, "watches", len(entries), "rows", n)
}

func runRefresh(cfg *config.Config, st store.Store, tf model.Timeframe, log *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	var fetcher collector.Fetcher
	if cfg.API.Mock {
		fetcher = &collector.MockFetcher{Watches: collector.MockWatches(12), BasePrice: 12000}
	} else {
		fetcher = collector.NewHorodexFetcher(cfg.API.BaseURL, cfg.API.Token, cfg.Proxy,
			collector.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
			collector.WithLogger(log),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	col := collector.NewCollector(fetcher, st, calendar.New(loc), log)
	col.MaxConcurrency = cfg.API.MaxConcurrency
	report, err := col.Refresh(ctx, tf)
	if err != nil {
		return err
	}
	log.Info("refresh finished", "run_id", report.RunID, "fetched", report.Fetched, "failed", len(report.Failed))
	return nil
}
