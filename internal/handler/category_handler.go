package handler

import (
	"net/http"

	"pizzeria-service/internal/menu"
	"pizzeria-service/internal/middleware"
	"pizzeria-service/internal/model"
	"pizzeria-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryHandler serves the effective category list and routes category
// mutations through the override writer.
type CategoryHandler struct {
	menu *menu.Service
}

// NewCategoryHandler wires the category endpoints.
func NewCategoryHandler(menuService *menu.Service) *CategoryHandler {
	return &CategoryHandler{menu: menuService}
}

// CategoryRequest defines the structure for category creation requests.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCategories returns the effective category list for the caller's
// tenant. Anonymous requests see the master categories.
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	tenant := model.MasterTenant
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		resolved, err := h.menu.Resolver().Resolve(ctx, userID)
		if err != nil {
			return respondError(c, log, err)
		}
		tenant = resolved
	}

	categories, err := h.menu.EffectiveCategories(ctx, tenant)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Categories retrieved",
		zap.String("tenant", tenant),
		zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a category owned by the caller's tenant.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	category := model.Category{Name: req.Name, Description: req.Description}
	created, err := h.menu.CreateCategory(c.Request().Context(), sess, &category)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Category created",
		zap.String("category_id", created.ID),
		zap.String("name", created.Name),
		zap.String("tenant", sess.Tenant))
	return c.JSON(http.StatusCreated, created)
}

// UpdateCategory applies a patch through the override writer. Master-owned
// categories edited by a regular tenant produce shadow records.
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	var patch model.CategoryPatch
	if err := c.Bind(&patch); err != nil {
		log.Error("Invalid request data", zap.String("category_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	updated, err := h.menu.UpdateCategory(c.Request().Context(), sess, id, patch)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Category updated",
		zap.String("category_id", id),
		zap.String("record_id", updated.ID),
		zap.String("tenant", sess.Tenant))
	return c.JSON(http.StatusOK, updated)
}

// DeleteCategory removes a category the caller's tenant owns.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	if err := h.menu.DeleteCategory(c.Request().Context(), sess, id); err != nil {
		return respondError(c, log, err)
	}

	log.Info("Category deleted",
		zap.String("category_id", id),
		zap.String("tenant", sess.Tenant))
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted"})
}
