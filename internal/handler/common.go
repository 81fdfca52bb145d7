package handler

import (
	"errors"
	"net/http"

	"pizzeria-service/internal/menu"
	"pizzeria-service/internal/middleware"
	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError maps resolver and store failures to HTTP responses with a
// human-readable message. Nothing is retried here.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, menu.ErrPermissionDenied):
		log.Warn("Operation rejected", zap.Error(err))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions for this operation"})
	case errors.Is(err, menu.ErrProfileNotFound):
		log.Warn("Profile missing for authenticated identity", zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user profile not found, please sign in again"})
	case errors.Is(err, model.ErrHiddenWithoutOverride):
		log.Warn("Invalid item patch", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only overrides of master items can be hidden"})
	case errors.Is(err, store.ErrNotFound):
		log.Warn("Document not found", zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, store.ErrUnavailable):
		log.Error("Document store unavailable", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable, try again later"})
	default:
		log.Error("Operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// sessionFromContext resolves the authenticated identity into a menu session
// (profile + tenant key) using the request context set by AuthMiddleware.
func sessionFromContext(c echo.Context, resolver *menu.Resolver) (*menu.Session, error) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return nil, menu.ErrProfileNotFound
	}
	return resolver.Session(c.Request().Context(), userID)
}
