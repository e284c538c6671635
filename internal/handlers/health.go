package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is implemented by backends that can report their reachability,
// such as *sql.DB and the Valkey client wrapper.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Health reports liveness plus the state of each named dependency.
type Health struct {
	backend string
	checks  map[string]Pinger
}

// NewHealth creates a health handler. checks may be empty for the memory
// backend.
func NewHealth(backend string, checks map[string]Pinger) *Health {
	return &Health{backend: backend, checks: checks}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Backend string            `json:"backend"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Backend: h.backend}
	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check.PingContext(ctx); err != nil {
			slog.Warn("health check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	respondJSON(w, r, status, resp)
}
