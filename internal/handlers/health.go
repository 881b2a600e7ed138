package handlers

import (
	"net/http"

	"github.com/stanstork/timeline-notify/internal/response"
)

// HealthCheck returns a simple JSON status
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
