// Package response writes JSON bodies for the API.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/stanstork/timeline-notify/internal/models"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent, nothing useful to do with an encode error
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes an empty JSON object with 200.
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, struct{}{})
}

func Error(w http.ResponseWriter, status int, apiErr models.APIError) {
	JSON(w, status, apiErr)
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, models.APIError{Error: models.APIErrorAuthentication})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, models.APIError{Error: models.APIErrorBadRequest, Message: message})
}

// Internal writes err as a 500 with its message in the body.
func Internal(w http.ResponseWriter, err error) {
	Error(w, http.StatusInternalServerError, models.NewAPIError(err))
}
