package models

import (
	"encoding/json"
	"fmt"
)

// Event is a stored timeline record. Event holds the plugin-specific payload
// as raw JSON; each plugin decodes it into its own type.
type Event struct {
	ID     string          `json:"id" db:"id"`
	Timing Timing          `json:"timing"`
	Plugin PluginKind      `json:"plugin" db:"plugin"`
	Event  json.RawMessage `json:"event" db:"event"`
}

func NewEvent(id string, timing Timing, plugin PluginKind, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", plugin, err)
	}
	return Event{ID: id, Timing: timing, Plugin: plugin, Event: raw}, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v interface{}) error {
	if err := json.Unmarshal(e.Event, v); err != nil {
		return fmt.Errorf("decode event %s: %w", e.ID, err)
	}
	return nil
}

// CompressedEvent is the display-ready projection of an Event returned by
// timeline queries. It is never persisted.
type CompressedEvent struct {
	Title string      `json:"title"`
	Time  Timing      `json:"time"`
	Data  interface{} `json:"data"`
}
