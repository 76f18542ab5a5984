package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error envelope shared by every API endpoint.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Standard error codes
const (
	ErrUnauthorized   = "unauthorized"
	ErrBadRequest     = "bad_request"
	ErrMimeNotAllowed = "mime_not_allowed"
	ErrExtNotAllowed  = "ext_not_allowed"
	ErrSizeTooLarge   = "size_too_large"
	ErrNotFound       = "not_found"
	ErrRateLimited    = "rate_limited"
	ErrInternal       = "internal"
)

// WriteJSON writes an arbitrary payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes a standardized error response.
func WriteError(w http.ResponseWriter, status int, code, message, hint string) {
	WriteJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
		Hint:    hint,
	})
}
