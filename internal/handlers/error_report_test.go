package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stanstork/timeline-notify/internal/repository"
	"github.com/stretchr/testify/assert"
)

type fakeErrorReports struct {
	reports []models.ErrorReport
	err     error
	limit   int
}

func (f *fakeErrorReports) Create(context.Context, repository.CreateErrorReportParams) (models.ErrorReport, error) {
	return models.ErrorReport{}, errors.New("not implemented")
}

func (f *fakeErrorReports) ListRecent(_ context.Context, limit int) ([]models.ErrorReport, error) {
	f.limit = limit
	return f.reports, f.err
}

func TestErrorReportList(t *testing.T) {
	repo := &fakeErrorReports{reports: []models.ErrorReport{{
		ID:        "b3c1c4f0-3a61-4d2f-9a0d-6f0f9f1d2e11",
		Message:   "insert event 1: connection refused",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}}}
	h := NewErrorReportHandler(repo, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/errors?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, repo.limit)
	assert.JSONEq(t, `{"reports":[{
		"id":"b3c1c4f0-3a61-4d2f-9a0d-6f0f9f1d2e11",
		"message":"insert event 1: connection refused",
		"created_at":"2024-03-01T12:00:00Z"
	}]}`, rec.Body.String())
}

func TestErrorReportListDefaults(t *testing.T) {
	repo := &fakeErrorReports{}
	h := NewErrorReportHandler(repo, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/errors?limit=-3", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, repo.limit)
	assert.JSONEq(t, `{"reports":[]}`, rec.Body.String())
}

func TestErrorReportListFailure(t *testing.T) {
	h := NewErrorReportHandler(&fakeErrorReports{err: errors.New("db down")}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/errors", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"StoreReadError","message":"store read failed: db down"}`, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
