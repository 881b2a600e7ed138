package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stanstork/timeline-notify/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	kind   models.PluginKind
	events []models.CompressedEvent
	err    error
	got    models.TimeRange
}

func (s *stubPlugin) Kind() models.PluginKind    { return s.kind }
func (s *stubPlugin) Routes() []plugin.RouteSpec { return nil }

func (s *stubPlugin) CompressedEvents(_ context.Context, r models.TimeRange) ([]models.CompressedEvent, error) {
	s.got = r
	return s.events, s.err
}

type stubSource []plugin.Plugin

func (s stubSource) Plugins() []plugin.Plugin { return s }

func TestTimelineEvents(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	notif := &stubPlugin{
		kind:   models.PluginNotification,
		events: []models.CompressedEvent{{Title: "WhatsApp", Time: models.Instant(at), Data: map[string]string{"title": "hi"}}},
	}
	other := &stubPlugin{kind: "timeline_plugin_media", events: []models.CompressedEvent{}}
	h := NewTimelineHandler(stubSource{notif, other}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Events(rec, httptest.NewRequest(http.MethodGet, "/api/events?from=2024-03-01T12:00:00Z&to=2024-03-01T13:00:00Z", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]models.CompressedEvent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body["timeline_plugin_notification"], 1)
	assert.Equal(t, "WhatsApp", body["timeline_plugin_notification"][0].Title)
	assert.True(t, body["timeline_plugin_notification"][0].Time.Start.Equal(at))
	assert.Empty(t, body["timeline_plugin_media"])

	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), notif.got.Start)
	assert.Equal(t, time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), notif.got.End)
}

func TestTimelineEventsBadRange(t *testing.T) {
	h := NewTimelineHandler(stubSource{}, zerolog.Nop())

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"missing from", "?to=2024-03-01T13:00:00Z", "from is required"},
		{"missing to", "?from=2024-03-01T13:00:00Z", "to is required"},
		{"bad format", "?from=yesterday&to=2024-03-01T13:00:00Z", "from must be an RFC3339 timestamp"},
		{"inverted", "?from=2024-03-02T00:00:00Z&to=2024-03-01T00:00:00Z", "before start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Events(rec, httptest.NewRequest(http.MethodGet, "/api/events"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestTimelineEventsPluginFailure(t *testing.T) {
	failing := &stubPlugin{kind: models.PluginNotification, err: errors.Join(models.ErrStoreRead, errors.New("bad row"))}
	h := NewTimelineHandler(stubSource{failing}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Events(rec, httptest.NewRequest(http.MethodGet, "/api/events?from=2024-03-01T12:00:00Z&to=2024-03-01T13:00:00Z", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "StoreReadError")
}
