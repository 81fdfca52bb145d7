package handler

import (
	"net/http"

	"pizzeria-service/internal/menu"
	"pizzeria-service/internal/middleware"
	"pizzeria-service/internal/model"
	"pizzeria-service/pkg/logger"
	"pizzeria-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MenuHandler serves the effective menu and routes item mutations through
// the override writer.
type MenuHandler struct {
	menu *menu.Service
}

// NewMenuHandler wires the menu endpoints.
func NewMenuHandler(menuService *menu.Service) *MenuHandler {
	return &MenuHandler{menu: menuService}
}

// ItemRequest defines the structure for item creation requests.
type ItemRequest struct {
	Kind                 model.ItemKind `json:"kind"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	ImageURL             string         `json:"image_url"`
	Category             string         `json:"category"`
	Ingredients          []string       `json:"ingredients"`
	Vegetarian           bool           `json:"vegetarian"`
	Prices               model.Prices   `json:"prices"`
	HasUniquePrice       bool           `json:"has_unique_price"`
	UniquePrice          float64        `json:"unique_price"`
	Customizable         bool           `json:"customizable"`
	MaxCustomIngredients int            `json:"max_custom_ingredients"`
	CustomIngredients    []string       `json:"custom_ingredients"`
}

// ListMenu returns the effective menu for the caller's tenant. Anonymous
// requests see the master menu.
func (h *MenuHandler) ListMenu(c echo.Context) error {
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

	items, err := h.menu.EffectiveItems(ctx, tenant)
	if err != nil {
		return respondError(c, log, err)
	}

	if kind := c.QueryParam("kind"); kind != "" {
		filtered := items[:0]
		for _, item := range items {
			if item.Kind == model.ItemKind(kind) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	tenantType := "tenant"
	if tenant == model.MasterTenant {
		tenantType = "master"
	}
	prometheus.RecordMenuMerge(tenantType)

	log.Info("Effective menu resolved",
		zap.String("tenant", tenant),
		zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

// ListTenantItems returns the raw records the caller's tenant owns,
// overrides included, for the management screens.
func (h *MenuHandler) ListTenantItems(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}
	items, err := h.menu.TenantItems(c.Request().Context(), sess.Tenant)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Tenant items retrieved",
		zap.String("tenant", sess.Tenant),
		zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

// CreateItem creates an original item owned by the caller's tenant.
func (h *MenuHandler) CreateItem(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Kind == "" {
		req.Kind = model.KindPizza
	}

	item := model.MenuItem{
		Kind:                 req.Kind,
		Name:                 req.Name,
		Description:          req.Description,
		ImageURL:             req.ImageURL,
		Category:             req.Category,
		Ingredients:          req.Ingredients,
		Vegetarian:           req.Vegetarian,
		Prices:               req.Prices,
		HasUniquePrice:       req.HasUniquePrice,
		UniquePrice:          req.UniquePrice,
		Customizable:         req.Customizable,
		MaxCustomIngredients: req.MaxCustomIngredients,
		CustomIngredients:    req.CustomIngredients,
	}

	created, err := h.menu.CreateItem(c.Request().Context(), sess, &item)
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordOverrideWrite("create_original")
	log.Info("Item created",
		zap.String("item_id", created.ID),
		zap.String("tenant", sess.Tenant),
		zap.String("name", created.Name))
	return c.JSON(http.StatusCreated, created)
}

// UpdateItem applies a patch through the override writer. Edits of master
// items by regular tenants produce shadow records, never master writes.
func (h *MenuHandler) UpdateItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	var patch model.ItemPatch
	if err := c.Bind(&patch); err != nil {
		log.Error("Invalid request data", zap.String("item_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	updated, err := h.menu.ApplyEdit(c.Request().Context(), sess, id, patch)
	if err != nil {
		return respondError(c, log, err)
	}

	operation := "direct_edit"
	if updated.IsOverride {
		operation = "override_edit"
	}
	prometheus.RecordOverrideWrite(operation)

	log.Info("Item updated",
		zap.String("item_id", id),
		zap.String("record_id", updated.ID),
		zap.String("tenant", sess.Tenant),
		zap.Bool("is_override", updated.IsOverride))
	return c.JSON(http.StatusOK, updated)
}

// DeleteItem removes a tenant-owned item or tombstones a master item for
// the caller's tenant.
func (h *MenuHandler) DeleteItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	if err := h.menu.ApplyDelete(c.Request().Context(), sess, id); err != nil {
		return respondError(c, log, err)
	}
	prometheus.RecordOverrideWrite("delete")

	log.Info("Item deleted",
		zap.String("item_id", id),
		zap.String("tenant", sess.Tenant))
	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted"})
}
