package collector

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/cassette"
	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Replays a recorded suggested-list call against the live API. Skipped
// unless the cassette exists or RECORD_CASSETTES=1 and a token is set.
func TestHorodexFetcher_FetchSuggested_Recorded(t *testing.T) {
	cassettePath := filepath.Join("testdata", "cassettes", "horodex_suggested")
	if _, err := os.Stat(cassettePath + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" || os.Getenv("HORODEX_API_TOKEN") == "" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 and HORODEX_API_TOKEN to record: %s", cassettePath)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(cassettePath), 0o755))
	}

	r, err := recorder.New(cassettePath)
	require.NoError(t, err)
	defer func() { _ = r.Stop() }()
	r.AddSaveFilter(func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	})

	f := NewHorodexFetcher(DefaultBaseURL, os.Getenv("HORODEX_API_TOKEN"), "",
		WithHTTPClient(&http.Client{Transport: r}))
	watches, err := f.FetchSuggested(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, watches)
	assert.NotEmpty(t, watches[0].ID)
}
