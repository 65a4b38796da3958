// Package store is the watch data cache: the latest fetched analytics and
// history per watch, plus the last suggested watch list.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"WatchBoard/internal/model"
)

// ErrNotFound is returned by Get for an id that was never stored.
var ErrNotFound = errors.New("store: not found")

// ParseError reports a stored value that no longer decodes.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("store: malformed value for %q: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store persists cache entries. Put always overwrites; the last write wins.
type Store interface {
	Put(id string, entry *model.CacheEntry) error
	Get(id string) (*model.CacheEntry, error)
	PutWatchList(watches []model.Watch) error
	WatchList() ([]model.Watch, error)
	Close() error
}

const watchListKey = "watchlist"

func entryKey(id string) string { return "watch:" + id }

func decodeEntry(key string, raw []byte) (*model.CacheEntry, error) {
	var e model.CacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, &ParseError{Key: key, Err: err}
	}
	return &e, nil
}

func decodeWatchList(raw []byte) ([]model.Watch, error) {
	var ws []model.Watch
	if err := json.Unmarshal(raw, &ws); err != nil {
		return nil, &ParseError{Key: watchListKey, Err: err}
	}
	return ws, nil
}

// Lookup reads id and folds a miss and a malformed value into ok=false.
// Parse failures are logged, never returned.
func Lookup(s Store, id string, log *slog.Logger) (*model.CacheEntry, bool) {
	e, err := s.Get(id)
	if err == nil {
		return e, true
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		if log == nil {
			log = slog.Default()
		}
		log.Warn("discarding malformed cache entry", "watch_id", id, "error", err)
	} else if !errors.Is(err, ErrNotFound) {
		if log == nil {
			log = slog.Default()
		}
		log.Warn("cache read failed", "watch_id", id, "error", err)
	}
	return nil, false
}
