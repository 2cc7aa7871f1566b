package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"log/slog"

	"github.com/godamri/helix-audit/engine"
)

// RecorderBuilder creates the per-request recorder. Services wire it up
// with their config snapshot and actor provider.
type RecorderBuilder func(ctx context.Context) (*engine.Recorder, error)

// ReadAudit records a Read audit event for successful GETs on record
// routes. typeParam and idParam name the chi route params carrying the
// record type key and tracking id.
//
// The read trail is flushed after the response is written: a failed
// fetch (non-2xx) is not a read, so nothing is recorded for it.
func ReadAudit(build RecorderBuilder, typeParam, idParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() < 200 || ww.Status() >= 300 {
				return
			}

			typeKey := chi.URLParam(r, typeParam)
			rawID := chi.URLParam(r, idParam)
			if typeKey == "" || rawID == "" {
				return
			}
			trackingID, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				return
			}

			ctx := r.Context()
			rec, err := build(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "read audit recorder build failed", "error", err)
				return
			}

			subject := engine.Subject{BaseID: trackingID, ParentID: trackingID, TrackingID: trackingID}
			if err := rec.RecordEvent(ctx, engine.EventRead, typeKey, subject, nil, nil); err != nil {
				slog.ErrorContext(ctx, "read audit record failed", "type", typeKey, "tracking_id", trackingID, "error", err)
				return
			}
			if err := rec.Flush(ctx); err != nil {
				// Flush already logged with entry context; nothing to
				// add here, and the response is long gone.
				return
			}
		})
	}
}
