// Package api holds the JSON envelope shared by every HTTP surface that is
// not the voice-platform webhook itself (admin trigger, health checks, signature
// rejections).
package api

import (
	"net/http"
	"strconv"
)

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// APIError is the body of every non-2xx JSON response.
type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func (e APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func WriteError(w http.ResponseWriter, status int, code, message, requestID string, details map[string]any) {
	WriteJSON(w, status, ErrorResponse{Error: APIError{Code: code, Message: message, Details: details, RequestID: requestID}})
}

func BadRequest(w http.ResponseWriter, code, message, requestID string, details map[string]any) {
	WriteError(w, http.StatusBadRequest, code, message, requestID, details)
}

func Unauthorized(w http.ResponseWriter, code, message, requestID string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteError(w, http.StatusUnauthorized, code, message, requestID, nil)
}

func Forbidden(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusForbidden, code, message, requestID, nil)
}

func PayloadTooLarge(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusRequestEntityTooLarge, code, message, requestID, nil)
}

// BadGateway reports an upstream (feed host) failure.
func BadGateway(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusBadGateway, code, message, requestID, nil)
}

// RateLimited answers 429 and asks the caller to back off for a second.
func RateLimited(w http.ResponseWriter, code, message, requestID string) {
	w.Header().Set("Retry-After", strconv.Itoa(1))
	WriteError(w, http.StatusTooManyRequests, code, message, requestID, nil)
}

// Internal hides the cause; callers log it before responding.
func Internal(w http.ResponseWriter, requestID string) {
	WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error", requestID, nil)
}
