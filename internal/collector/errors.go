package collector

import "fmt"

// RemoteFetchError is any failed call to the market data API: a transport
// failure, a non-2xx status, or a body that cannot be used.
type RemoteFetchError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		if e.Err == nil {
			return fmt.Sprintf("fetch %s: status %d, body: %s", e.Endpoint, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("fetch %s: status %d (%v), body: %s", e.Endpoint, e.StatusCode, e.Err, e.Body)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }
