package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pizzeria-service/internal/menu"
	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store/memstore"
	"pizzeria-service/pkg/config"
	"pizzeria-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{
		Metrics: config.MetricsConfig{Prefix: "pizzeria_test"},
	})
	m.Run()
}

func newOrderFixture(t *testing.T) (*OrderHandler, *memstore.Store, *model.User) {
	t.Helper()
	st := memstore.New()
	resolver := menu.NewResolver(st, "master@pizzeria.com")
	svc := menu.NewService(st, resolver, zap.NewNop())

	user := model.User{
		Email:    "client@example.com",
		Role:     model.RoleClient,
		Roles:    []model.UserRole{model.RoleAdmin, model.RolePizzeria, model.RoleClient},
		FullName: "Client Test",
		Phone:    "+33 6 00 00 00 00",
	}
	require.NoError(t, st.CreateUser(context.Background(), &user))

	return NewOrderHandler(st, svc), st, &user
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestCreateOrderAssignsSequentialNumbers(t *testing.T) {
	h, _, user := newOrderFixture(t)
	e := echo.New()

	body := `{"items":[{"item_id":"p1","name":"Marguerite","size":"medium","quantity":2,"price":11.5}]}`

	for i, want := range []int{20251, 20252} {
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/orders", body), rec)
		c.Set("user_id", user.ID)

		require.NoError(t, h.CreateOrder(c), "order %d", i)
		require.Equal(t, http.StatusCreated, rec.Code)

		var order model.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
		assert.Equal(t, want, order.OrderNumber)
		assert.Equal(t, 23.0, order.Total)
		assert.Equal(t, model.StatusPending, order.Status)
		assert.Equal(t, user.ID, order.UserID)
	}
}

func TestCreateOrderFillsCustomerFromProfile(t *testing.T) {
	h, _, user := newOrderFixture(t)
	e := echo.New()

	body := `{"items":[{"item_id":"p1","name":"Reine","size":"large","quantity":1,"price":15.5}]}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/orders", body), rec)
	c.Set("user_id", user.ID)

	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "Client Test", order.Customer.FullName)
	assert.Equal(t, "client@example.com", order.Customer.Email)
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	h, _, user := newOrderFixture(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/orders", `{"items":[]}`), rec)
	c.Set("user_id", user.ID)

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersOnlyOwn(t *testing.T) {
	h, st, user := newOrderFixture(t)
	ctx := context.Background()

	mine := model.Order{UserID: user.ID, Total: 10, Status: model.StatusPending}
	foreign := model.Order{UserID: "someone-else", Total: 99, Status: model.StatusPending}
	require.NoError(t, st.CreateOrder(ctx, &mine))
	require.NoError(t, st.CreateOrder(ctx, &foreign))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/orders", nil), rec)
	c.Set("user_id", user.ID)

	require.NoError(t, h.ListOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)
}

func TestUpdateOrderStatusSetsPreparationTime(t *testing.T) {
	h, st, user := newOrderFixture(t)
	ctx := context.Background()

	order := model.Order{UserID: user.ID, Total: 10, Status: model.StatusConfirmed}
	require.NoError(t, st.CreateOrder(ctx, &order))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/orders/"+order.ID+"/status",
		`{"status":"en_preparation","preparation_time":20}`), rec)
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	c.Set("user_id", user.ID)

	require.NoError(t, h.UpdateOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := st.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPreparing, stored.Status)
	assert.Equal(t, 20, stored.PreparationTime)
}

func TestDeleteOrdersRequiresPassword(t *testing.T) {
	h, st, user := newOrderFixture(t)
	ctx := context.Background()

	order := model.Order{UserID: user.ID, Total: 10, Status: model.StatusPickedUp}
	require.NoError(t, st.CreateOrder(ctx, &order))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodDelete, "/api/orders", `{"password":"wrong"}`), rec)
	c.Set("user_id", user.ID)

	require.NoError(t, h.DeleteOrders(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodDelete, "/api/orders", `{"password":"delete123"}`), rec)
	c.Set("user_id", user.ID)

	require.NoError(t, h.DeleteOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := st.CountOrders(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
