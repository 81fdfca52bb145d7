package handler

import (
	"net/http"
	"sort"

	"pizzeria-service/internal/menu"
	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"
	"pizzeria-service/pkg/logger"
	"pizzeria-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandler serves the management dashboards: order statistics and the
// override integrity report.
type AdminHandler struct {
	store store.Store
	menu  *menu.Service
}

// NewAdminHandler wires the admin endpoints.
func NewAdminHandler(st store.Store, menuService *menu.Service) *AdminHandler {
	return &AdminHandler{store: st, menu: menuService}
}

// DayRevenue is one point of the revenue-by-day series.
type DayRevenue struct {
	Day     string  `json:"day"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// OrderStats aggregates order history for the dashboard.
type OrderStats struct {
	TotalOrders       int            `json:"total_orders"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	OrdersByStatus    map[string]int `json:"orders_by_status"`
	RevenueByDay      []DayRevenue   `json:"revenue_by_day"`
}

// computeOrderStats aggregates the order list. Cancelled orders count toward
// the status breakdown but not toward revenue.
func computeOrderStats(orders []model.Order) OrderStats {
	stats := OrderStats{OrdersByStatus: make(map[string]int)}
	days := make(map[string]*DayRevenue)

	for _, order := range orders {
		stats.TotalOrders++
		stats.OrdersByStatus[string(order.Status)]++
		if order.Status == model.StatusCancelled {
			continue
		}
		stats.TotalRevenue += order.Total

		day := order.CreatedAt.Format("2006-01-02")
		entry, ok := days[day]
		if !ok {
			entry = &DayRevenue{Day: day}
			days[day] = entry
		}
		entry.Orders++
		entry.Revenue += order.Total
	}

	billed := stats.TotalOrders - stats.OrdersByStatus[string(model.StatusCancelled)]
	if billed > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(billed)
	}

	stats.RevenueByDay = make([]DayRevenue, 0, len(days))
	for _, entry := range days {
		stats.RevenueByDay = append(stats.RevenueByDay, *entry)
	}
	sort.Slice(stats.RevenueByDay, func(i, j int) bool {
		return stats.RevenueByDay[i].Day < stats.RevenueByDay[j].Day
	})
	return stats
}

// GetStats returns aggregated order statistics for the dashboard.
func (h *AdminHandler) GetStats(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}
	if !sess.CanManageMenu() {
		return respondError(c, log, menu.ErrPermissionDenied)
	}

	orders, err := h.store.QueryOrders(c.Request().Context(), store.OrderFilter{})
	if err != nil {
		return respondError(c, log, err)
	}

	stats := computeOrderStats(orders)
	log.Info("Order stats computed",
		zap.Int("total_orders", stats.TotalOrders),
		zap.Float64("total_revenue", stats.TotalRevenue))
	return c.JSON(http.StatusOK, stats)
}

// CheckIntegrity reports tenants holding more than one override for the
// same master item. The merge already resolves these deterministically; the
// report exists so an operator can clean them up.
func (h *AdminHandler) CheckIntegrity(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}
	if !sess.IsMaster() {
		return respondError(c, log, menu.ErrPermissionDenied)
	}

	conflicts, err := h.menu.OverrideConflicts(c.Request().Context())
	if err != nil {
		return respondError(c, log, err)
	}
	if len(conflicts) > 0 {
		prometheus.OverrideConflictsCounter.Add(float64(len(conflicts)))
		log.Warn("Duplicate overrides found", zap.Int("count", len(conflicts)))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"conflicts": conflicts,
		"healthy":   len(conflicts) == 0,
	})
}
