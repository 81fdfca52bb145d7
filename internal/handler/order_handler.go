package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pizzeria-service/internal/menu"
	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"
	"pizzeria-service/pkg/logger"
	"pizzeria-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// orderNumberBase seeds customer-facing order numbers; the visible number is
// the base plus the account's order count at creation time.
const orderNumberBase = 20251

// streamHeartbeat keeps idle SSE connections from being reaped by proxies.
const streamHeartbeat = 25 * time.Second

// OrderHandler implements order creation, listing, status updates and the
// live order stream.
type OrderHandler struct {
	store store.Store
	menu  *menu.Service
}

// NewOrderHandler wires the order endpoints.
func NewOrderHandler(st store.Store, menuService *menu.Service) *OrderHandler {
	return &OrderHandler{store: st, menu: menuService}
}

// OrderRequest is the payload for order creation.
type OrderRequest struct {
	Items         []model.OrderItem   `json:"items"`
	PickupAddress string              `json:"pickup_address"`
	Customer      model.OrderCustomer `json:"user"`
}

// CreateOrder records a new order for the authenticated account.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order must contain at least one item"})
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("invalid quantity for %s", item.Name)})
		}
	}

	ctx := c.Request().Context()
	count, err := h.store.CountOrders(ctx, sess.User.ID)
	if err != nil {
		return respondError(c, log, err)
	}

	customer := req.Customer
	if customer.FullName == "" {
		customer.FullName = sess.User.FullName
	}
	if customer.Phone == "" {
		customer.Phone = sess.User.Phone
	}
	if customer.Email == "" {
		customer.Email = sess.User.Email
	}

	var total float64
	for _, item := range req.Items {
		total += item.Price * float64(item.Quantity)
	}

	order := model.Order{
		OrderNumber:   orderNumberBase + int(count),
		UserID:        sess.User.ID,
		Customer:      customer,
		PickupAddress: req.PickupAddress,
		Items:         req.Items,
		Total:         total,
		Status:        model.StatusPending,
	}
	if err := h.store.CreateOrder(ctx, &order); err != nil {
		return respondError(c, log, err)
	}
	prometheus.RecordOrderOperation("create")

	log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int("order_number", order.OrderNumber),
		zap.String("user_id", sess.User.ID),
		zap.Float64("total", order.Total))
	return c.JSON(http.StatusCreated, order)
}

// ListOrders returns the authenticated account's orders, newest first. An
// optional status query narrows the result.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	filter := store.OrderFilter{UserID: store.Of(sess.User.ID)}
	if status := c.QueryParam("status"); status != "" {
		s := model.OrderStatus(status)
		if !s.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		filter.Status = &s
	}

	orders, err := h.store.QueryOrders(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Orders retrieved",
		zap.String("user_id", sess.User.ID),
		zap.Int("count", len(orders)))
	return c.JSON(http.StatusOK, orders)
}

// ListAllOrders returns every order, for the management screens.
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}
	if !sess.CanManageMenu() {
		return respondError(c, log, menu.ErrPermissionDenied)
	}

	filter := store.OrderFilter{}
	if status := c.QueryParam("status"); status != "" {
		s := model.OrderStatus(status)
		if !s.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		filter.Status = &s
	}

	orders, err := h.store.QueryOrders(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// StatusUpdateRequest is the payload for order status transitions.
type StatusUpdateRequest struct {
	Status          model.OrderStatus `json:"status"`
	PreparationTime int               `json:"preparation_time,omitempty"`
}

// UpdateOrderStatus moves an order through its lifecycle. Only accounts
// acting in a management space may transition orders.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}
	if !sess.CanManageMenu() {
		return respondError(c, log, menu.ErrPermissionDenied)
	}

	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("order_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	order, err := h.store.GetOrder(ctx, id)
	if err != nil {
		return respondError(c, log, err)
	}

	order.Status = req.Status
	if req.Status == model.StatusPreparing && req.PreparationTime > 0 {
		order.PreparationTime = req.PreparationTime
	}
	if err := h.store.UpdateOrder(ctx, order); err != nil {
		return respondError(c, log, err)
	}
	prometheus.RecordOrderOperation("status_update")

	log.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", string(req.Status)))
	return c.JSON(http.StatusOK, order)
}

// DeleteOrdersRequest is the payload for the destructive history wipe.
type DeleteOrdersRequest struct {
	Password string `json:"password"`
}

// DeleteOrders removes the authenticated account's whole order history. The
// deletion password from the pizzeria settings guards the operation.
func (h *OrderHandler) DeleteOrders(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	var req DeleteOrdersRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	ctx := c.Request().Context()
	settings, err := h.store.GetSettings(ctx, model.MasterTenant)
	if errors.Is(err, store.ErrNotFound) {
		settings = model.DefaultSettings(model.MasterTenant)
	} else if err != nil {
		return respondError(c, log, err)
	}
	if req.Password != settings.DeletePassword {
		log.Warn("Order history wipe rejected", zap.String("user_id", sess.User.ID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "incorrect password"})
	}

	if err := h.store.DeleteOrdersByUser(ctx, sess.User.ID); err != nil {
		return respondError(c, log, err)
	}
	prometheus.RecordOrderOperation("delete_all")

	log.Info("Order history deleted", zap.String("user_id", sess.User.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "order history deleted"})
}

// streamEvent is one SSE frame on the order stream.
type streamEvent struct {
	Op    store.EventOp `json:"op"`
	ID    string        `json:"id,omitempty"`
	Order *model.Order  `json:"order,omitempty"`
}

// StreamOrders pushes order changes for the authenticated account over
// Server-Sent Events until the client disconnects.
func (h *OrderHandler) StreamOrders(c echo.Context) error {
	log := logger.FromContext(c)

	sess, err := sessionFromContext(c, h.menu.Resolver())
	if err != nil {
		return respondError(c, log, err)
	}

	// Management spaces watch every order, customers only their own.
	owner := sess.User.ID
	if sess.CanManageMenu() {
		owner = ""
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	// The hub handler must not block, so events are handed to a buffered
	// channel and dropped when the consumer lags.
	events := make(chan store.Event, 16)
	sub := h.store.Events().Register(store.CollectionOrders, owner, func(ev store.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer sub.Cancel()

	prometheus.ActiveSubscriptionsGauge.Inc()
	defer prometheus.ActiveSubscriptionsGauge.Dec()

	log.Info("Order stream opened",
		zap.String("user_id", sess.User.ID),
		zap.Bool("all_orders", owner == ""))

	ctx := c.Request().Context()
	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Order stream closed", zap.String("user_id", sess.User.ID))
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": heartbeat\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case ev := <-events:
			frame := streamEvent{Op: ev.Op, ID: ev.ID}
			if ev.ID != "" && ev.Op != store.OpDeleted {
				if order, err := h.store.GetOrder(ctx, ev.ID); err == nil {
					frame.Order = order
				}
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				log.Error("Failed to encode stream event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
