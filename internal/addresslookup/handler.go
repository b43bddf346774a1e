package addresslookup

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leadgate/internal/platform/metrics"
	"leadgate/internal/platform/middleware"
	dErrors "leadgate/pkg/domainerrors"
	"leadgate/pkg/httputil"
)

// Handler exposes the lookup relay endpoint.
type Handler struct {
	lookup  Lookup
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler constructs the relay handler with its dependencies.
func NewHandler(lookup Lookup, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{lookup: lookup, logger: logger, metrics: m}
}

// Register mounts the relay on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/address-lookup", h.HandleLookup)
}

type lookupRequest struct {
	Action string `json:"action"`
	Term   string `json:"term"`
	ID     string `json:"id"`
}

// HandleLookup handles POST /address-lookup requests. The action field
// selects between an autocomplete search and a full-details fetch.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req lookupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	switch req.Action {
	case "autocomplete":
		if req.Term == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "term is required"))
			return
		}
		suggestions, err := h.lookup.Autocomplete(ctx, req.Term)
		if err != nil {
			h.metrics.AddressLookups.WithLabelValues("autocomplete", "error").Inc()
			h.logger.ErrorContext(ctx, "address autocomplete failed",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		h.metrics.AddressLookups.WithLabelValues("autocomplete", "ok").Inc()
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})

	case "get":
		if req.ID == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id is required"))
			return
		}
		address, err := h.lookup.Get(ctx, req.ID)
		if err != nil {
			h.metrics.AddressLookups.WithLabelValues("get", "error").Inc()
			h.logger.ErrorContext(ctx, "address details fetch failed",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		h.metrics.AddressLookups.WithLabelValues("get", "ok").Inc()
		httputil.WriteJSON(w, http.StatusOK, address)

	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
			`action must be "autocomplete" or "get"`))
	}
}
