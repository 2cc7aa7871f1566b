package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/godamri/helix-audit/server/health"
	"github.com/godamri/helix-audit/server/middleware"
	"github.com/godamri/helix-audit/sink"
)

// NewRouter assembles the standard ops router: recovery, trace/request
// ids, tracing, RED metrics, request logging, then health and trail
// routes. Embedding services mount their own record routes on the
// returned router, typically behind middleware.ReadAudit.
func NewRouter(serviceName string, trail sink.Querier, db *sql.DB, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.TraceIDMiddleware)
	r.Use(middleware.OTelMiddleware(serviceName, r))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.LoggerMiddleware)

	if db != nil {
		health.NewChecker(db, logger).RegisterRoutes(r)
	}
	if trail != nil {
		NewTrailHandler(trail).RegisterRoutes(r)
	}

	return r
}
