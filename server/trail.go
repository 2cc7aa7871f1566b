package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/godamri/helix-audit/engine"
	"github.com/godamri/helix-audit/http/response"
	"github.com/godamri/helix-audit/sink"
)

// TrailHandler serves read-only audit trail queries from a queryable
// sink. It is an ops/compliance surface, not part of the recording
// path.
type TrailHandler struct {
	trail sink.Querier
}

func NewTrailHandler(trail sink.Querier) *TrailHandler {
	return &TrailHandler{trail: trail}
}

// RegisterRoutes mounts the trail and metrics endpoints.
func (h *TrailHandler) RegisterRoutes(r chi.Router) {
	r.Get("/audit/trail", h.HandleQuery)
	r.Handle("/metrics", promhttp.Handler())
}

func (h *TrailHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	q := sink.Query{
		RecordTypeKey: r.URL.Query().Get("type"),
		EventKind:     engine.EventKind(r.URL.Query().Get("event")),
	}

	if raw := r.URL.Query().Get("tracking_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.ErrorJSON(w, r, http.StatusBadRequest, response.ErrValidation, "tracking_id must be an integer")
			return
		}
		q.TrackingID = id
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.ErrorJSON(w, r, http.StatusBadRequest, response.ErrValidation, "limit must be a non-negative integer")
			return
		}
		q.Limit = limit
	}

	entries, err := h.trail.Query(r.Context(), q)
	if err != nil {
		response.ErrorJSON(w, r, response.MapStatus(response.ErrAuditSink), response.ErrAuditSink, "trail query failed")
		return
	}

	response.JSON(w, r, http.StatusOK, entries)
}
