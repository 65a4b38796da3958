package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// AnalyticsEntry is one timeframe-tagged record of an AnalyticsSet.
type AnalyticsEntry struct {
	Key    string
	Record OHLC
}

// AnalyticsSet maps timeframe-tagged keys such as "analytics_1m" to OHLC
// records. Entries keep the key order of the upstream document so that
// first-match lookups are reproducible after a cache round trip.
type AnalyticsSet struct {
	WatchID string
	Entries []AnalyticsEntry
}

// Get returns the record stored under exactly key.
func (s AnalyticsSet) Get(key string) (OHLC, bool) {
	for _, e := range s.Entries {
		if e.Key == key {
			return e.Record, true
		}
	}
	return OHLC{}, false
}

// Keys returns the entry keys in native order.
func (s AnalyticsSet) Keys() []string {
	keys := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		keys[i] = e.Key
	}
	return keys
}

func (s AnalyticsSet) Len() int { return len(s.Entries) }

// UnmarshalJSON decodes an upstream global_analytics object. Non-object
// members are not analytics; watch_id is kept aside.
func (s *AnalyticsSet) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("analytics set: invalid json")
	}
	doc := gjson.ParseBytes(data)
	if doc.Type == gjson.Null {
		*s = AnalyticsSet{}
		return nil
	}
	if !doc.IsObject() {
		return fmt.Errorf("analytics set: expected object, got %s", doc.Type)
	}

	var (
		out AnalyticsSet
		err error
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if k == "watch_id" {
			out.WatchID = value.String()
			return true
		}
		if !value.IsObject() {
			return true
		}
		var rec OHLC
		if err = json.Unmarshal([]byte(value.Raw), &rec); err != nil {
			err = fmt.Errorf("analytics set: key %q: %w", k, err)
			return false
		}
		out.Entries = append(out.Entries, AnalyticsEntry{Key: k, Record: rec})
		return true
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON writes the entries back as an object in native order.
func (s AnalyticsSet) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	var err error
	if s.WatchID != "" {
		if out, err = sjson.SetBytes(out, "watch_id", s.WatchID); err != nil {
			return nil, fmt.Errorf("analytics set: watch_id: %w", err)
		}
	}
	for _, e := range s.Entries {
		raw, err := json.Marshal(e.Record)
		if err != nil {
			return nil, fmt.Errorf("analytics set: key %q: %w", e.Key, err)
		}
		if out, err = sjson.SetRawBytes(out, keyPath(e.Key), raw); err != nil {
			return nil, fmt.Errorf("analytics set: key %q: %w", e.Key, err)
		}
	}
	return out, nil
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`*`, `\*`,
	`?`, `\?`,
)

// keyPath turns an object key into a literal sjson path. The leading colon
// keeps numeric keys from being treated as array indexes.
func keyPath(key string) string {
	return ":" + pathEscaper.Replace(key)
}
