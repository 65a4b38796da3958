package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// Descriptor names the watch model.
type Descriptor struct {
	Manufacturer string `json:"manufacturer"`
	ModelName    string `json:"model_name"`
}

// Watch is one tradeable watch model as listed by the suggestion endpoint.
// Listed watches carry their analytics; the watch object nested in a
// utility response usually does not.
type Watch struct {
	ID              string       `json:"id"`
	ImageURL        string       `json:"image_url"`
	Model           Descriptor   `json:"model"`
	ReferenceNumber string       `json:"reference_number"`
	Analytics       AnalyticsSet `json:"global_analytics"`
}

// UnmarshalJSON accepts the id as either a JSON string or a number.
func (w *Watch) UnmarshalJSON(data []byte) error {
	type plain Watch
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.ID = ""
	if len(aux.ID) == 0 {
		return nil
	}
	switch id := gjson.ParseBytes(aux.ID); id.Type {
	case gjson.String, gjson.Number:
		w.ID = id.String()
	case gjson.Null:
	default:
		return fmt.Errorf("watch id: unexpected %s", aux.ID)
	}
	return nil
}

// DisplayName joins manufacturer and model name.
func (w Watch) DisplayName() string {
	switch {
	case w.Model.Manufacturer == "":
		return w.Model.ModelName
	case w.Model.ModelName == "":
		return w.Model.Manufacturer
	}
	return w.Model.Manufacturer + " " + w.Model.ModelName
}

// Utility is one element of the watchutility response.
type Utility struct {
	Watch     Watch          `json:"watch"`
	Analytics AnalyticsSet   `json:"global_analytics"`
	History   []HistoryPoint `json:"daily_analytics"`
}

// CacheEntry is the most recent fetch for a watch, overwritten on every refetch.
type CacheEntry struct {
	Utility
	Timeframe Timeframe `json:"timeframe,omitempty"`
	Start     string    `json:"start,omitempty"`
	End       string    `json:"end,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}
