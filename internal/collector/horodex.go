package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"WatchBoard/internal/model"
)

const (
	// DefaultBaseURL is the watch data API root.
	DefaultBaseURL = "https://api-dev.horodex.io/watch_data/api/v1"

	suggestedPath = "/watches/search/suggested"
	utilityPath   = "/watchutility"

	maxErrorBody = 512
)

// HorodexFetcher implements Fetcher against the horodex watch data API.
type HorodexFetcher struct {
	BaseURL string
	Token   string
	Client  *http.Client
	log     *slog.Logger
}

var _ Fetcher = (*HorodexFetcher)(nil)

// Option configures a HorodexFetcher.
type Option func(*HorodexFetcher)

// WithHTTPClient replaces the default client, e.g. with a recording transport.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HorodexFetcher) {
		if c != nil {
			f.Client = c
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(f *HorodexFetcher) {
		if d > 0 {
			f.Client.Timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(f *HorodexFetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// NewHorodexFetcher creates a fetcher with optional proxy support.
func NewHorodexFetcher(baseURL, token, proxyURL string, opts ...Option) *HorodexFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	f := &HorodexFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *HorodexFetcher) Name() string { return "horodex" }

func (f *HorodexFetcher) FetchSuggested(ctx context.Context) ([]model.Watch, error) {
	var watches []model.Watch
	if err := f.getJSON(ctx, suggestedPath, nil, &watches); err != nil {
		return nil, err
	}
	return watches, nil
}

func (f *HorodexFetcher) FetchHistory(ctx context.Context, watchID, start, end string) (*model.Utility, error) {
	q := url.Values{}
	q.Set("watch_ids", watchID)
	q.Set("start", start)
	q.Set("end", end)
	q.Set("limit", "-1")
	q.Set("page", "-1")
	q.Set("orderBy", "related_day")
	q.Set("direction", "asc")

	var rows []model.Utility
	if err := f.getJSON(ctx, utilityPath, q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &RemoteFetchError{
			Endpoint: utilityPath,
			Err:      fmt.Errorf("no utility data for watch %s", watchID),
		}
	}

	u := rows[0]
	// Upstream already orders by day; sorting again keeps charts sane if it doesn't.
	slices.SortStableFunc(u.History, func(a, b model.HistoryPoint) int {
		return strings.Compare(a.Day(), b.Day())
	})
	return &u, nil
}

func (f *HorodexFetcher) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := f.BaseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &RemoteFetchError{Endpoint: path, Err: err}
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return &RemoteFetchError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	f.log.Debug("api request", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteFetchError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteFetchError{Endpoint: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
