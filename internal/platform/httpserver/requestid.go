package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id on requests and responses.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

type ctxKeyRequestID struct{}

// ContextWithRequestID attaches rid so downstream handlers and error
// envelopes can echo it.
func ContextWithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, rid)
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return v
}

// RequestIDMiddleware reuses a caller-supplied id when it is short and
// printable, and mints a UUID otherwise. The id is echoed on the response.
func RequestIDMiddleware(headerName string) func(next http.Handler) http.Handler {
	if strings.TrimSpace(headerName) == "" {
		headerName = RequestIDHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid, ok := cleanRequestID(r.Header.Get(headerName))
			if !ok {
				rid = uuid.NewString()
			}
			w.Header().Set(headerName, rid)
			next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), rid)))
		})
	}
}

// cleanRequestID rejects ids that would pollute logs: empty, oversized, or
// containing anything outside [A-Za-z0-9._:-].
func cleanRequestID(raw string) (string, bool) {
	rid := strings.TrimSpace(raw)
	if rid == "" || len(rid) > maxRequestIDLen {
		return "", false
	}
	for _, c := range rid {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return "", false
		}
	}
	return rid, true
}
