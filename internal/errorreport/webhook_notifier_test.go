package errorreport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(destination string) models.ErrorReport {
	kind := models.PluginNotification
	return models.ErrorReport{
		ID:          "b3c1c4f0-3a61-4d2f-9a0d-6f0f9f1d2e11",
		Plugin:      &kind,
		Message:     "insert event 1: connection refused",
		Destination: destination,
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifierPostsReport(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(config.ErrorReportConfig{Timeout: time.Second}, srv.Client(), zerolog.Nop())
	require.NoError(t, n.Notify(context.Background(), testReport(srv.URL)))

	assert.Equal(t, "timeline_plugin_notification", got.Plugin)
	assert.Equal(t, "insert event 1: connection refused", got.Message)
	assert.Equal(t, "b3c1c4f0-3a61-4d2f-9a0d-6f0f9f1d2e11", got.ID)
}

func TestWebhookNotifierSkipsEmptyDestination(t *testing.T) {
	n := NewWebhookNotifier(config.ErrorReportConfig{}, nil, zerolog.Nop())
	assert.NoError(t, n.Notify(context.Background(), testReport("")))
}

func TestWebhookNotifierBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(config.ErrorReportConfig{
		BreakerMaxFailures: 2,
		BreakerTimeout:     time.Hour,
	}, srv.Client(), zerolog.Nop())

	for i := 0; i < 2; i++ {
		err := n.Notify(context.Background(), testReport(srv.URL))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
	}

	err := n.Notify(context.Background(), testReport(srv.URL))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load())
}
