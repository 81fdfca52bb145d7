package seed

import (
	"context"
	"testing"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"
	"pizzeria-service/internal/store/memstore"
	"pizzeria-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Master: config.MasterConfig{
			Email:    "master@pizzeria.com",
			Password: "master123",
		},
	}
}

func TestRunSeedsEmptyStore(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	require.NoError(t, Run(ctx, st, testConfig(), zap.NewNop()))

	master, err := st.GetUserByEmail(ctx, "master@pizzeria.com")
	require.NoError(t, err)
	assert.True(t, master.CanManageMenu())
	assert.NotEqual(t, "master123", master.Password)

	items, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of(model.MasterTenant)})
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	for _, item := range items {
		assert.True(t, item.Active)
		assert.False(t, item.IsOverride)
	}

	categories, err := st.QueryCategories(ctx, store.CategoryFilter{Owner: store.Of(model.MasterTenant)})
	require.NoError(t, err)
	assert.NotEmpty(t, categories)
}

func TestRunIdempotent(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	cfg := testConfig()

	require.NoError(t, Run(ctx, st, cfg, zap.NewNop()))
	items, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of(model.MasterTenant)})
	require.NoError(t, err)
	first := len(items)

	require.NoError(t, Run(ctx, st, cfg, zap.NewNop()))
	items, err = st.QueryItems(ctx, store.ItemFilter{Owner: store.Of(model.MasterTenant)})
	require.NoError(t, err)
	assert.Equal(t, first, len(items))

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRunSkipsMenuWhenMasterHasItems(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	existing := model.MenuItem{Kind: model.KindPizza, Name: "Déjà là", Owner: model.MasterTenant, Active: true}
	require.NoError(t, st.CreateItem(ctx, &existing))

	require.NoError(t, Run(ctx, st, testConfig(), zap.NewNop()))

	items, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of(model.MasterTenant)})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
