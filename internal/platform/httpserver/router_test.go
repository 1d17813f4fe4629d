package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(cfg ...RouterConfig) chi.Router {
	r := chi.NewRouter()
	SetupRouter(r, cfg...)
	return r
}

func TestProbes(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		ready  func() error
		status int
		body   string
	}{
		{"healthz", "/healthz", nil, http.StatusOK, "ok"},
		{"readyz without check", "/readyz", nil, http.StatusOK, "ready"},
		{"readyz store ok", "/readyz", func() error { return nil }, http.StatusOK, "ready"},
		{"readyz store down", "/readyz", func() error { return errors.New("redis: connection refused") }, http.StatusServiceUnavailable, `"NOT_READY"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(RouterConfig{ReadyFunc: tc.ready})
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.body) {
				t.Fatalf("expected body to contain %q, got %q", tc.body, rr.Body.String())
			}
		})
	}
}

func TestPanicRecovery_JSONWithRequestID(t *testing.T) {
	r := newTestRouter()
	r.Post("/skill", func(http.ResponseWriter, *http.Request) {
		panic("dispatcher blew up")
	})

	req := httptest.NewRequest(http.MethodPost, "/skill", nil)
	req.Header.Set(RequestIDHeader, "amzn1.echo-api.request.1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on panic, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"request_id":"amzn1.echo-api.request.1"`) {
		t.Fatalf("expected request id in body, got %s", rr.Body.String())
	}
}

func TestCORS_PreflightAllowsSignatureHeader(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://console.example.com")
	r := newTestRouter()
	r.Post("/skill", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/skill", nil)
	req.Header.Set("Origin", "https://console.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", SignatureHeader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://console.example.com" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if !strings.Contains(strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers")), strings.ToLower(SignatureHeader)) {
		t.Fatalf("signature header not allowed: %v", rr.Header())
	}
}

func TestCORS_DefaultWildcard(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	r := newTestRouter()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected CORS header to be set")
	}
}

func TestParseCORSOrigins(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", "*"},
		{" , ", "*"},
		{"https://skill.example.com", "https://skill.example.com"},
		{"https://skill.example.com , https://www.skill.example.com", "https://skill.example.com|https://www.skill.example.com"},
	}
	for _, tc := range cases {
		if got := strings.Join(parseCORSOrigins(tc.raw), "|"); got != tc.want {
			t.Fatalf("parseCORSOrigins(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestRequestIDInjected(t *testing.T) {
	r := newTestRouter()
	var capturedID string
	r.Get("/id", func(w http.ResponseWriter, r *http.Request) {
		capturedID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if capturedID == "" {
		t.Fatal("expected request ID to be injected into context")
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected X-Request-Id response header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(RouterConfig{ServiceName: "test"})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "http_requests_total") {
		t.Fatal("expected http_requests_total in metrics output")
	}
}
