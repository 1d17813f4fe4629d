package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func makeToken(t *testing.T, subject, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := Issue(testSecret, subject, role, ttl)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func newVerifier() JWTVerifier { return JWTVerifier{Secret: testSecret} }

func withRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxKeyRole{}, role)
}

// ─── JWTVerifier / Issue ─────────────────────────────────────────────────────

func TestIssue_RoundTrip(t *testing.T) {
	claims, err := newVerifier().Parse(makeToken(t, "ops-1", RoleAdmin, time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "ops-1" || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestIssue_EmptySecret(t *testing.T) {
	if _, err := Issue(nil, "ops", RoleAdmin, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	if _, err := newVerifier().Parse(makeToken(t, "ops-1", RoleAdmin, -time.Hour)); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestJWTVerifier_WrongSecret(t *testing.T) {
	tok := makeToken(t, "ops-1", RoleAdmin, time.Hour)
	if _, err := (JWTVerifier{Secret: []byte("wrong-secret")}).Parse(tok); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestJWTVerifier_TamperedPayload(t *testing.T) {
	parts := strings.Split(makeToken(t, "ops-1", "viewer", time.Hour), ".")
	if len(parts) != 3 {
		t.Fatal("expected 3 JWT parts")
	}
	if _, err := newVerifier().Parse(parts[0] + ".dGFtcGVyZWQ." + parts[2]); err == nil {
		t.Fatal("expected error for tampered token")
	}
}

// ─── RequireBearer ───────────────────────────────────────────────────────────

func callRequireBearer(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	RequireBearer(newVerifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := SubjectFromContext(r.Context())
		role, _ := RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sub + "/" + role))
	})).ServeHTTP(rr, req)
	return rr
}

func TestRequireBearer_Valid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, "ops-42", RoleAdmin, time.Hour))

	rr := callRequireBearer(req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ops-42/admin" {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}

func TestRequireBearer_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing":   "",
		"basic":     "Basic dXNlcjpwYXNz",
		"garbage":   "Bearer invalid.token.here",
		"no token":  "Bearer",
		"expired":   "Bearer " + makeToken(t, "ops", RoleAdmin, -time.Hour),
		"anonymous": "Bearer " + makeToken(t, "", RoleAdmin, time.Hour),
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if rr := callRequireBearer(req); rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rr.Code)
		}
	}
}

// ─── RequireAdmin ────────────────────────────────────────────────────────────

func callRequireAdmin(ctx context.Context) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/refresh", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)
	return rr
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"ADMIN", http.StatusOK},
		{"viewer", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tc := range cases {
		ctx := context.Background()
		if tc.role != "" {
			ctx = withRole(ctx, tc.role)
		}
		if rr := callRequireAdmin(ctx); rr.Code != tc.want {
			t.Fatalf("role %q: expected %d, got %d", tc.role, tc.want, rr.Code)
		}
	}
}
