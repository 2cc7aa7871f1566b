package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
)

// Checker serves liveness/readiness for the ops surface. Readiness
// checks the audit store: an unreachable sink means flushes would fail
// and the instance should stop taking traffic.
type Checker struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewChecker(db *sql.DB, logger *slog.Logger) *Checker {
	return &Checker{
		db:     db,
		logger: logger,
	}
}

func (c *Checker) RegisterRoutes(r chi.Router) {
	r.Get("/health", c.HandleHealth)   // liveness
	r.Get("/ready", c.HandleReadiness) // readiness
}

func (c *Checker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleReadiness performs a real-time check against the audit store.
// A slow store (>200ms) counts as down; the load balancer should cut
// this instance off before flushes start timing out.
func (c *Checker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 200*time.Millisecond)
	defer cancel()

	status := "UP"
	statusCode := http.StatusOK

	if err := c.db.PingContext(ctx); err != nil {
		c.logger.Error("readiness check failed: audit store unreachable or slow", "error", err)
		status = "DOWN"
		statusCode = http.StatusServiceUnavailable
	}

	resp := map[string]string{
		"status":      status,
		"audit_store": status,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		c.logger.Error("failed to write health response", "error", err)
	}
}
