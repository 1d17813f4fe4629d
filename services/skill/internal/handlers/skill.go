package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/morning-report/internal/platform/api"
	"github.com/example/morning-report/internal/platform/httpserver"
	"github.com/example/morning-report/internal/skill"
	"github.com/example/morning-report/services/skill/internal/envelope"
)

const maxBodyBytes = 1 << 20

// Dispatcher is satisfied by *skill.Dispatcher.
type Dispatcher interface {
	Handle(ctx context.Context, userID string, req skill.Request) skill.Response
}

// SkillHandler serves POST /v1/skill. Every decodable or undecodable envelope
// is answered with 200; only an unreadable or oversized body is a client
// error.
type SkillHandler struct {
	dispatcher Dispatcher
	log        *zap.Logger
}

func NewSkillHandler(d Dispatcher, log *zap.Logger) *SkillHandler {
	return &SkillHandler{dispatcher: d, log: log}
}

func (h *SkillHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.PayloadTooLarge(w, "BODY_TOO_LARGE", "Request body exceeds 1 MiB", rid)
			return
		}
		api.BadRequest(w, "READ_ERROR", "cannot read body", rid, nil)
		return
	}

	userID, req, err := envelope.Decode(body)
	if err != nil {
		h.log.Warn("skill: undecodable envelope", zap.String("request_id", rid), zap.Error(err))
	}
	resp := h.dispatcher.Handle(r.Context(), userID, req)
	api.WriteJSON(w, http.StatusOK, envelope.Encode(resp))
}
