package menu

import (
	"context"
	"testing"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagateCopiesMasterTemplate(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	a := seedMasterItem(t, st, "Marguerite", "Classiques")
	b := seedMasterItem(t, st, "Reine", "Classiques")
	masterCat := model.Category{Name: "Classiques", Owner: model.MasterTenant, Active: true}
	require.NoError(t, st.CreateCategory(ctx, &masterCat))

	copied, err := svc.PropagateIfEmpty(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 3, copied)

	owned, err := st.QueryItems(ctx, store.ItemFilter{
		Owner:      store.Of("tenant-1"),
		IsOverride: store.Of(false),
	})
	require.NoError(t, err)
	require.Len(t, owned, 2)

	// Copies carry fresh ids and no link back to their master originals.
	for _, item := range owned {
		assert.NotEqual(t, a.ID, item.ID)
		assert.NotEqual(t, b.ID, item.ID)
		assert.Empty(t, item.MasterItemID)
		assert.False(t, item.IsOverride)
		assert.True(t, item.Active)
	}

	categories, err := st.QueryCategories(ctx, store.CategoryFilter{Owner: store.Of("tenant-1")})
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Empty(t, categories[0].MasterCategoryID)
}

func TestPropagateIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seedMasterItem(t, st, "Marguerite", "Classiques")

	first, err := svc.PropagateIfEmpty(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := svc.PropagateIfEmpty(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Zero(t, second)

	owned, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of("tenant-1")})
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestPropagateSkipsMasterTenant(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seedMasterItem(t, st, "Marguerite", "Classiques")

	copied, err := svc.PropagateIfEmpty(ctx, model.MasterTenant)
	require.NoError(t, err)
	assert.Zero(t, copied)

	items, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of(model.MasterTenant)})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPropagateSkipsTenantWithAnyOwnedItem(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seedMasterItem(t, st, "Marguerite", "Classiques")
	seedMasterItem(t, st, "Reine", "Classiques")

	existing := model.MenuItem{Kind: model.KindPizza, Name: "Maison", Owner: "tenant-1", Active: true}
	require.NoError(t, st.CreateItem(ctx, &existing))

	copied, err := svc.PropagateIfEmpty(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Zero(t, copied)
}

func TestPropagateOverridesDoNotBlockCopy(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	master := seedMasterItem(t, st, "Marguerite", "Classiques")

	// An override is not an owned original; the tenant's template is still
	// considered empty.
	override := model.MenuItem{
		Kind:         model.KindPizza,
		Name:         "Modifiée",
		Owner:        "tenant-1",
		IsOverride:   true,
		MasterItemID: master.ID,
		Active:       true,
	}
	require.NoError(t, st.CreateItem(ctx, &override))

	copied, err := svc.PropagateIfEmpty(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 1, copied)
}
