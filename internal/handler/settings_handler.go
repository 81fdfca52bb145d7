package handler

import (
	"errors"
	"net/http"

	"pizzeria-service/internal/menu"
	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"
	"pizzeria-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SettingsHandler serves the pizzeria settings document.
type SettingsHandler struct {
	store store.Store
	menu  *menu.Service
}

// NewSettingsHandler wires the settings endpoints.
func NewSettingsHandler(st store.Store, menuService *menu.Service) *SettingsHandler {
	return &SettingsHandler{store: st, menu: menuService}
}

// GetSettings returns the master pizzeria settings. A tenant that never
// saved settings gets the defaults without a write.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	log := logger.FromContext(c)

	settings, err := h.store.GetSettings(c.Request().Context(), model.MasterTenant)
	if errors.Is(err, store.ErrNotFound) {
		settings = model.DefaultSettings(model.MasterTenant)
	} else if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings saves the settings document. Only the master tenant edits
// the pizzeria settings.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}
	if !sess.IsMaster() {
		return respondError(c, log, menu.ErrPermissionDenied)
	}

	var settings model.Settings
	if err := c.Bind(&settings); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	settings.Owner = model.MasterTenant

	if err := h.store.SaveSettings(c.Request().Context(), &settings); err != nil {
		return respondError(c, log, err)
	}

	log.Info("Settings updated", zap.String("owner", settings.Owner))
	return c.JSON(http.StatusOK, settings)
}
