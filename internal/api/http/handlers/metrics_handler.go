package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-intake/internal/observability"
)

// MetricsHandler serves the decisioning counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Summary GET /metrics/summary.
func (h *MetricsHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Summary()})
}
