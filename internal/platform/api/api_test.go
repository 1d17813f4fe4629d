package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	Unauthorized(rr, "SIGNATURE_INVALID", "bad signature", "rid-1")

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "SIGNATURE_INVALID" || body.Error.RequestID != "rid-1" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	Internal(rr, "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestUnauthorized_ChallengeHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	Unauthorized(rr, "UNAUTHENTICATED", "Bearer token required", "")
	if rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("missing challenge header: %v", rr.Header())
	}
}

func TestRateLimited_RetryAfter(t *testing.T) {
	rr := httptest.NewRecorder()
	RateLimited(rr, "RATE_LIMITED", "Too many requests", "rid-2")
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") != "1" {
		t.Fatalf("unexpected response %d %v", rr.Code, rr.Header())
	}
}

func TestAPIError_Error(t *testing.T) {
	if got := (APIError{Code: "NOT_READY", Message: "store down"}).Error(); got != "NOT_READY: store down" {
		t.Fatalf("got %q", got)
	}
	if got := (APIError{Code: "INTERNAL"}).Error(); got != "INTERNAL" {
		t.Fatalf("got %q", got)
	}
}

func TestPayloadTooLarge(t *testing.T) {
	rr := httptest.NewRecorder()
	PayloadTooLarge(rr, "BODY_TOO_LARGE", "too big", "")
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}
