package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stanstork/timeline-notify/internal/repository"
	"github.com/stanstork/timeline-notify/internal/response"
)

type ErrorReportHandler struct {
	repo   repository.ErrorReportRepository
	logger zerolog.Logger
}

func NewErrorReportHandler(repo repository.ErrorReportRepository, logger zerolog.Logger) *ErrorReportHandler {
	return &ErrorReportHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "error_report").Logger(),
	}
}

func (h *ErrorReportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 25
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reports, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list error reports")
		response.Internal(w, fmt.Errorf("%w: %w", models.ErrStoreRead, err))
		return
	}
	if reports == nil {
		reports = []models.ErrorReport{}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
	})
}
