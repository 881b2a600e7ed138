package models

import "errors"

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrStoreWrite     = errors.New("store write failed")
	ErrStoreRead      = errors.New("store read failed")
	ErrInitialization = errors.New("initialization failed")
)

// APIErrorKind is the machine-readable error tag sent to API callers.
type APIErrorKind string

const (
	APIErrorAuthentication APIErrorKind = "AuthenticationError"
	APIErrorStoreWrite     APIErrorKind = "StoreWriteError"
	APIErrorStoreRead      APIErrorKind = "StoreReadError"
	APIErrorBadRequest     APIErrorKind = "BadRequest"
	APIErrorInternal       APIErrorKind = "InternalError"
)

type APIError struct {
	Error   APIErrorKind `json:"error"`
	Message string       `json:"message,omitempty"`
}

// NewAPIError maps err onto the error body returned to callers.
func NewAPIError(err error) APIError {
	switch {
	case errors.Is(err, ErrAuthentication):
		return APIError{Error: APIErrorAuthentication}
	case errors.Is(err, ErrStoreWrite):
		return APIError{Error: APIErrorStoreWrite, Message: err.Error()}
	case errors.Is(err, ErrStoreRead):
		return APIError{Error: APIErrorStoreRead, Message: err.Error()}
	default:
		return APIError{Error: APIErrorInternal, Message: err.Error()}
	}
}
