package jobs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/morning-report/internal/platform/api"
	"github.com/example/morning-report/internal/platform/auth"
	"github.com/example/morning-report/internal/platform/httpserver"
	"github.com/example/morning-report/internal/platform/ratelimit"
)

// Trigger exposes POST /v1/admin/refresh to admin bearer tokens.
type Trigger struct {
	Log      *zap.Logger
	Job      Runner
	Verifier auth.JWTVerifier
	// Limiter throttles callers before authentication; nil disables it.
	Limiter *ratelimit.PerIP
}

func (t Trigger) Register(r chi.Router) {
	mw := []func(http.Handler) http.Handler{auth.RequireBearer(t.Verifier), auth.RequireAdmin}
	if t.Limiter != nil {
		mw = append([]func(http.Handler) http.Handler{t.Limiter.Middleware}, mw...)
	}
	r.With(mw...).Post("/v1/admin/refresh", t.refresh)
}

// refresh answers 200 when at least one half succeeded and 502 when both
// failed.
func (t Trigger) refresh(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	sub, _ := auth.SubjectFromContext(r.Context())
	t.Log.Info("admin refresh", zap.String("subject", sub), zap.String("request_id", rid))

	res, err := t.Job.Run(r.Context())
	if err != nil && res.ReportError != "" && res.PodcastError != "" {
		api.BadGateway(w, "REFRESH_FAILED", err.Error(), rid)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}
