package handler

import (
	"net/http"

	"pizzeria-service/internal/store"
	"pizzeria-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthHandler reports service and store liveness.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler wires the health endpoint.
func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

// Check reports whether the service and its document store are reachable.
func (h *HealthHandler) Check(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		logger.FromContext(c).Error("Store ping failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "degraded",
			"store":  "unreachable",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"store":  "ok",
	})
}
