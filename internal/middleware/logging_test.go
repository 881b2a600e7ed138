package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := LoggingMiddleware(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/health", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, float64(len("short and stout")), line["bytes"])
	assert.Equal(t, "http", line["component"])
}

func TestLoggingMiddlewareMasksSecret(t *testing.T) {
	var buf bytes.Buffer
	handler := LoggingMiddleware(zerolog.New(&buf), "/api/plugin/p/hook/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/plugin/p/hook/s3cret/x", nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "/api/plugin/p/hook/***/x", line["path"])
	assert.NotContains(t, buf.String(), "s3cret")
}

func TestRedactPath(t *testing.T) {
	prefixes := []string{"/api/plugin/timeline_plugin_notification/notification/"}
	tests := []struct {
		in   string
		want string
	}{
		{"/api/plugin/timeline_plugin_notification/notification/hunter2/com.foo/t/c", "/api/plugin/timeline_plugin_notification/notification/***/com.foo/t/c"},
		{"/api/plugin/timeline_plugin_notification/notification/hunter2", "/api/plugin/timeline_plugin_notification/notification/***"},
		{"/api/plugin/timeline_plugin_notification/icon/com.foo", "/api/plugin/timeline_plugin_notification/icon/com.foo"},
		{"/health", "/health"},
	}
	assert.Equal(t, "/x/hunter2", redactPath("/x/hunter2", nil))
	for _, tt := range tests {
		assert.Equal(t, tt.want, redactPath(tt.in, prefixes))
	}
}
