package menu

import (
	"context"
	"testing"
	"time"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	resolver := NewResolver(st, testMasterEmail)
	return NewService(st, resolver, zap.NewNop()), st
}

func seedMasterItem(t *testing.T, st *memstore.Store, name, category string) model.MenuItem {
	t.Helper()
	item := model.MenuItem{
		Kind:     model.KindPizza,
		Name:     name,
		Category: category,
		Owner:    model.MasterTenant,
		Active:   true,
		Prices:   model.Prices{Small: 8, Medium: 11, Large: 14},
	}
	require.NoError(t, st.CreateItem(context.Background(), &item))
	return item
}

func TestEffectiveItemsMasterSeesOwnMenu(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	a := seedMasterItem(t, st, "Marguerite", "Classiques")
	b := seedMasterItem(t, st, "Reine", "Classiques")

	items, err := svc.EffectiveItems(ctx, model.MasterTenant)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, b.ID, items[1].ID)
}

func TestEffectiveItemsOverrideReplacesMaster(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	master := seedMasterItem(t, st, "Marguerite", "Classiques")
	seedMasterItem(t, st, "Reine", "Classiques")

	override := model.MenuItem{
		Kind:         model.KindPizza,
		Name:         "Marguerite Spéciale",
		Category:     "Classiques",
		Owner:        "tenant-1",
		IsOverride:   true,
		MasterItemID: master.ID,
		Active:       true,
	}
	require.NoError(t, st.CreateItem(ctx, &override))

	items, err := svc.EffectiveItems(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	names := []string{items[0].Name, items[1].Name}
	assert.Contains(t, names, "Marguerite Spéciale")
	assert.NotContains(t, names, "Marguerite")
}

func TestEffectiveItemsHiddenOverrideRemovesMaster(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	master := seedMasterItem(t, st, "Marguerite", "Classiques")
	kept := seedMasterItem(t, st, "Reine", "Classiques")

	tombstone := model.MenuItem{
		Kind:         model.KindPizza,
		Name:         master.Name,
		Owner:        "tenant-1",
		IsOverride:   true,
		MasterItemID: master.ID,
		IsHidden:     true,
		Active:       true,
	}
	require.NoError(t, st.CreateItem(ctx, &tombstone))

	items, err := svc.EffectiveItems(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)
}

func TestEffectiveItemsIncludesOwnedOriginals(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seedMasterItem(t, st, "Marguerite", "Classiques")
	owned := model.MenuItem{
		Kind:     model.KindPizza,
		Name:     "Maison",
		Category: "Spécialités",
		Owner:    "tenant-1",
		Active:   true,
	}
	require.NoError(t, st.CreateItem(ctx, &owned))

	items, err := svc.EffectiveItems(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Marguerite", items[0].Name)
	assert.Equal(t, "Maison", items[1].Name)
}

func TestEffectiveItemsOwnedOriginalsInvisibleToOthers(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seedMasterItem(t, st, "Marguerite", "Classiques")
	owned := model.MenuItem{
		Kind:   model.KindPizza,
		Name:   "Maison",
		Owner:  "tenant-1",
		Active: true,
	}
	require.NoError(t, st.CreateItem(ctx, &owned))

	items, err := svc.EffectiveItems(ctx, "tenant-2")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Marguerite", items[0].Name)
}

func TestEffectiveItemsInactiveMasterExcluded(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seedMasterItem(t, st, "Marguerite", "Classiques")
	inactive := model.MenuItem{
		Kind:   model.KindPizza,
		Name:   "Retirée",
		Owner:  model.MasterTenant,
		Active: false,
	}
	require.NoError(t, st.CreateItem(ctx, &inactive))

	items, err := svc.EffectiveItems(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Marguerite", items[0].Name)
}

func TestEffectiveItemsDuplicateOverrideEarliestWins(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	master := seedMasterItem(t, st, "Marguerite", "Classiques")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := model.MenuItem{
		Kind:         model.KindPizza,
		Name:         "Première",
		Owner:        "tenant-1",
		IsOverride:   true,
		MasterItemID: master.ID,
		Active:       true,
		CreatedAt:    base,
	}
	require.NoError(t, st.CreateItem(ctx, &first))

	second := model.MenuItem{
		Kind:         model.KindPizza,
		Name:         "Seconde",
		Owner:        "tenant-1",
		IsOverride:   true,
		MasterItemID: master.ID,
		Active:       true,
		CreatedAt:    base.Add(time.Hour),
	}
	require.NoError(t, st.CreateItem(ctx, &second))

	items, err := svc.EffectiveItems(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Première", items[0].Name)
}

func TestEffectiveItemsMalformedOverrideSkipped(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seedMasterItem(t, st, "Marguerite", "Classiques")

	// Override flag set without a master reference: the record is skipped
	// rather than shadowing anything.
	malformed := model.MenuItem{
		Kind:       model.KindPizza,
		Name:       "Orpheline",
		Owner:      "tenant-1",
		IsOverride: true,
		Active:     true,
	}
	require.NoError(t, st.CreateItem(ctx, &malformed))

	items, err := svc.EffectiveItems(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Marguerite", items[0].Name)
}

func TestEffectiveItemsSortedByCategoryThenName(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seedMasterItem(t, st, "Tiramisu", "Desserts")
	seedMasterItem(t, st, "Reine", "Classiques")
	seedMasterItem(t, st, "Marguerite", "Classiques")

	items, err := svc.EffectiveItems(ctx, model.MasterTenant)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Marguerite", items[0].Name)
	assert.Equal(t, "Reine", items[1].Name)
	assert.Equal(t, "Tiramisu", items[2].Name)
}

func TestEffectiveCategoriesMergesShadows(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	masterCat := model.Category{Name: "Classiques", Owner: model.MasterTenant, Active: true}
	require.NoError(t, st.CreateCategory(ctx, &masterCat))

	shadow := model.Category{
		Name:             "Les Classiques",
		Owner:            "tenant-1",
		MasterCategoryID: masterCat.ID,
		Active:           true,
	}
	require.NoError(t, st.CreateCategory(ctx, &shadow))

	owned := model.Category{Name: "Maison", Owner: "tenant-1", Active: true}
	require.NoError(t, st.CreateCategory(ctx, &owned))

	categories, err := svc.EffectiveCategories(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, categories, 2)

	names := []string{categories[0].Name, categories[1].Name}
	assert.ElementsMatch(t, []string{"Les Classiques", "Maison"}, names)
}

func TestOverrideConflictsReportsDuplicates(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	master := seedMasterItem(t, st, "Marguerite", "Classiques")
	for _, name := range []string{"a", "b"} {
		dup := model.MenuItem{
			Kind:         model.KindPizza,
			Name:         name,
			Owner:        "tenant-1",
			IsOverride:   true,
			MasterItemID: master.ID,
			Active:       true,
		}
		require.NoError(t, st.CreateItem(ctx, &dup))
	}

	conflicts, err := svc.OverrideConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "tenant-1", conflicts[0].Owner)
	assert.Equal(t, master.ID, conflicts[0].MasterItemID)
	assert.Len(t, conflicts[0].ItemIDs, 2)
}

func TestOverrideConflictsEmptyWhenHealthy(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	master := seedMasterItem(t, st, "Marguerite", "Classiques")
	single := model.MenuItem{
		Kind:         model.KindPizza,
		Name:         "unique",
		Owner:        "tenant-1",
		IsOverride:   true,
		MasterItemID: master.ID,
		Active:       true,
	}
	require.NoError(t, st.CreateItem(ctx, &single))

	conflicts, err := svc.OverrideConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
