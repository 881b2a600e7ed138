package authz

import (
	"net/http"

	"github.com/stanstork/timeline-notify/internal/response"
)

// RequireSubject rejects requests that carry no authenticated subject.
func RequireSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SubjectFromRequest(r); !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
