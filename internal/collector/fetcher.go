package collector

import (
	"context"

	"WatchBoard/internal/model"
)

// Fetcher is the remote market data API.
type Fetcher interface {
	// FetchSuggested returns the suggested watch list.
	FetchSuggested(ctx context.Context) ([]model.Watch, error)
	// FetchHistory returns analytics and daily prices of one watch for the
	// inclusive day range [start, end], oldest first.
	FetchHistory(ctx context.Context, watchID, start, end string) (*model.Utility, error)
	Name() string
}
