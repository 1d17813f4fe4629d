package auth

import (
	"net/http"
	"strings"

	"github.com/example/morning-report/internal/platform/api"
	"github.com/example/morning-report/internal/platform/httpserver"
)

// RoleAdmin is the role operator tokens carry.
const RoleAdmin = "admin"

// RequireAdmin allows the request only if RequireBearer already injected
// role=admin into the context.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := RoleFromContext(r.Context())
		if !strings.EqualFold(strings.TrimSpace(role), RoleAdmin) {
			api.Forbidden(w, "FORBIDDEN", "Admin role required", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
