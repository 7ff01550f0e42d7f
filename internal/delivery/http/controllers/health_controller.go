package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"eventpass/internal/delivery/http/helpers"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB and by the document store client.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// PingContext calls f(ctx).
func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthResponse is the response body for GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// HealthSuccessResponse is the success response envelope for GET /health (200).
type HealthSuccessResponse struct {
	Data  HealthResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// HealthController reports whether the backing stores are reachable.
type HealthController struct {
	Logger *slog.Logger
	Checks map[string]Pinger
}

// NewHealthController creates a HealthController over the named checks.
func NewHealthController(logger *slog.Logger, checks map[string]Pinger) *HealthController {
	return &HealthController{
		Logger: logger,
		Checks: checks,
	}
}

// Health godoc
// @Summary Health check
// @Description Pings each backing store. Responds 503 when any of them is unreachable.
// @Tags health
// @Produce json
// @Success 200 {object} controllers.HealthSuccessResponse "data contains status and per-service state"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Services: make(map[string]string, len(c.Checks))}
	for name, check := range c.Checks {
		if err := check.PingContext(ctx); err != nil {
			c.Logger.WarnContext(r.Context(), "health check failed", "service", name, "err", err)
			resp.Services[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Services[name] = "up"
	}
	if resp.Status != "ok" {
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, "one or more services are unavailable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resp)
}
