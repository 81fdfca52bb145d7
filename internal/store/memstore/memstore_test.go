package memstore

import (
	"context"
	"testing"
	"time"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCRUD(t *testing.T) {
	st := New()
	ctx := context.Background()

	item := model.MenuItem{Kind: model.KindPizza, Name: "Marguerite", Owner: "master", Active: true}
	require.NoError(t, st.CreateItem(ctx, &item))
	require.NotEmpty(t, item.ID)
	require.False(t, item.CreatedAt.IsZero())

	got, err := st.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marguerite", got.Name)

	got.Name = "Reine"
	require.NoError(t, st.UpdateItem(ctx, got))
	updated, err := st.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reine", updated.Name)

	require.NoError(t, st.DeleteItem(ctx, item.ID))
	_, err = st.GetItem(ctx, item.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestQueryItemsFilters(t *testing.T) {
	st := New()
	ctx := context.Background()

	records := []model.MenuItem{
		{Kind: model.KindPizza, Name: "master-active", Owner: "master", Active: true},
		{Kind: model.KindPizza, Name: "master-inactive", Owner: "master", Active: false},
		{Kind: model.KindPizza, Name: "tenant-override", Owner: "t1", IsOverride: true, MasterItemID: "m1", Active: true},
		{Kind: model.KindExtra, Name: "tenant-owned", Owner: "t1", Active: true},
	}
	for i := range records {
		require.NoError(t, st.CreateItem(ctx, &records[i]))
	}

	masters, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of("master"), Active: store.Of(true)})
	require.NoError(t, err)
	require.Len(t, masters, 1)
	assert.Equal(t, "master-active", masters[0].Name)

	overrides, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of("t1"), IsOverride: store.Of(true)})
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, "tenant-override", overrides[0].Name)

	extras, err := st.QueryItems(ctx, store.ItemFilter{Kind: store.Of(model.KindExtra)})
	require.NoError(t, err)
	require.Len(t, extras, 1)

	byMaster, err := st.QueryItems(ctx, store.ItemFilter{MasterItemID: store.Of("m1")})
	require.NoError(t, err)
	require.Len(t, byMaster, 1)
}

func TestQueryItemsCreationOrder(t *testing.T) {
	st := New()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newer := model.MenuItem{Name: "newer", Owner: "master", CreatedAt: base.Add(time.Hour)}
	older := model.MenuItem{Name: "older", Owner: "master", CreatedAt: base}
	require.NoError(t, st.CreateItem(ctx, &newer))
	require.NoError(t, st.CreateItem(ctx, &older))

	items, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of("master")})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "older", items[0].Name)
	assert.Equal(t, "newer", items[1].Name)
}

func TestStoredItemsAreIsolatedCopies(t *testing.T) {
	st := New()
	ctx := context.Background()

	item := model.MenuItem{Name: "Marguerite", Owner: "master", Ingredients: []string{"tomate"}}
	require.NoError(t, st.CreateItem(ctx, &item))

	got, err := st.GetItem(ctx, item.ID)
	require.NoError(t, err)
	got.Ingredients[0] = "mutated"

	again, err := st.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "tomate", again.Ingredients[0])
}

func TestUserLookupByEmail(t *testing.T) {
	st := New()
	ctx := context.Background()

	user := model.User{Email: "a@example.com"}
	require.NoError(t, st.CreateUser(ctx, &user))

	got, err := st.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = st.GetUserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrdersNewestFirstAndCount(t *testing.T) {
	st := New()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	older := model.Order{UserID: "u1", Total: 10, CreatedAt: base}
	newer := model.Order{UserID: "u1", Total: 20, CreatedAt: base.Add(time.Hour)}
	foreign := model.Order{UserID: "u2", Total: 30, CreatedAt: base}
	require.NoError(t, st.CreateOrder(ctx, &older))
	require.NoError(t, st.CreateOrder(ctx, &newer))
	require.NoError(t, st.CreateOrder(ctx, &foreign))

	orders, err := st.QueryOrders(ctx, store.OrderFilter{UserID: store.Of("u1")})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 20.0, orders[0].Total)

	count, err := st.CountOrders(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, st.DeleteOrdersByUser(ctx, "u1"))
	count, err = st.CountOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	remaining, err := st.QueryOrders(ctx, store.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestSettingsRoundTrip(t *testing.T) {
	st := New()
	ctx := context.Background()

	_, err := st.GetSettings(ctx, "master")
	require.ErrorIs(t, err, store.ErrNotFound)

	settings := model.DefaultSettings("master")
	require.NoError(t, st.SaveSettings(ctx, settings))

	got, err := st.GetSettings(ctx, "master")
	require.NoError(t, err)
	assert.Equal(t, settings.DeletePassword, got.DeletePassword)
	assert.Equal(t, settings.OpeningHours["monday"], got.OpeningHours["monday"])
}

func TestWritesPublishEvents(t *testing.T) {
	st := New()
	ctx := context.Background()

	var events []store.Event
	sub := st.Events().Register(store.CollectionOrders, "u1", func(ev store.Event) {
		events = append(events, ev)
	})
	defer sub.Cancel()

	order := model.Order{UserID: "u1"}
	require.NoError(t, st.CreateOrder(ctx, &order))

	order.Status = model.StatusConfirmed
	require.NoError(t, st.UpdateOrder(ctx, &order))

	other := model.Order{UserID: "u2"}
	require.NoError(t, st.CreateOrder(ctx, &other))

	require.Len(t, events, 2)
	assert.Equal(t, store.OpCreated, events[0].Op)
	assert.Equal(t, store.OpUpdated, events[1].Op)
	assert.Equal(t, order.ID, events[1].ID)
}
