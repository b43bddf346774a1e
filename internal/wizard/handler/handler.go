// Package handler exposes the wizard session API over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leadgate/internal/platform/middleware"
	"leadgate/internal/wizard/models"
	"leadgate/internal/wizard/service"
	dErrors "leadgate/pkg/domainerrors"
	"leadgate/pkg/httputil"
)

// Service is the wizard operation surface the handler depends on.
type Service interface {
	Start(ctx context.Context, req service.StartRequest) (*service.Snapshot, error)
	Get(ctx context.Context, id string) (*service.Snapshot, error)
	PatchState(ctx context.Context, id string, patch *models.Patch) (*service.Snapshot, error)
	Next(ctx context.Context, id, rawQuery string) (*service.Snapshot, error)
	Back(ctx context.Context, id string) (*service.Snapshot, error)
	Goto(ctx context.Context, id, slug string) (*service.Snapshot, error)
}

// Handler wires wizard endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a wizard handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.HandleStart)
	r.Get("/sessions/{id}", h.HandleGet)
	r.Patch("/sessions/{id}/state", h.HandlePatchState)
	r.Post("/sessions/{id}/next", h.HandleNext)
	r.Post("/sessions/{id}/back", h.HandleBack)
	r.Post("/sessions/{id}/goto", h.HandleGoto)
}

// HandleStart handles POST /sessions. Tracking parameters ride on the query
// string; the referrer and user agent come from their usual headers.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.service.Start(ctx, service.StartRequest{
		RawQuery:  r.URL.RawQuery,
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "session start failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, snap)
}

// HandleGet handles GET /sessions/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// HandlePatchState handles PATCH /sessions/{id}/state.
func (h *Handler) HandlePatchState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var patch models.Patch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.WriteError(w, err)
		return
	}

	snap, err := h.service.PatchState(ctx, id, &patch)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// HandleNext handles POST /sessions/{id}/next. Query parameters on this
// request refresh the session's tracking set before the transition runs.
func (h *Handler) HandleNext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	snap, err := h.service.Next(ctx, id, r.URL.RawQuery)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal || dErrors.HasCode(err, dErrors.CodeUnavailable) {
			h.logger.ErrorContext(ctx, "step transition failed",
				"request_id", middleware.GetRequestID(ctx),
				"session_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// HandleBack handles POST /sessions/{id}/back.
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Back(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

type gotoRequest struct {
	Slug string `json:"slug"`
}

// HandleGoto handles POST /sessions/{id}/goto.
func (h *Handler) HandleGoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req gotoRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Slug == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "slug is required"))
		return
	}

	snap, err := h.service.Goto(ctx, id, req.Slug)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}
