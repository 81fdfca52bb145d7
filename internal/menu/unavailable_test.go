package menu

import (
	"context"
	"testing"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"
	"pizzeria-service/internal/store/gormstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newUnavailableService builds the resolver core over a store whose every
// call fails with store.ErrUnavailable.
func newUnavailableService(t *testing.T) *Service {
	t.Helper()
	st := gormstore.New(nil)
	return NewService(st, NewResolver(st, testMasterEmail), zap.NewNop())
}

func unavailableSession() *Session {
	return &Session{
		User: &model.User{
			ID:    "tenant-1",
			Email: "tenant@example.com",
			Roles: []model.UserRole{model.RoleAdmin, model.RolePizzeria},
		},
		Tenant: "tenant-1",
	}
}

func TestEffectiveItemsDegradeWhenStoreUnavailable(t *testing.T) {
	svc := newUnavailableService(t)
	ctx := context.Background()

	items, err := svc.EffectiveItems(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = svc.EffectiveItems(ctx, model.MasterTenant)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEffectiveCategoriesDegradeWhenStoreUnavailable(t *testing.T) {
	svc := newUnavailableService(t)
	ctx := context.Background()

	categories, err := svc.EffectiveCategories(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Empty(t, categories)

	categories, err = svc.EffectiveCategories(ctx, model.MasterTenant)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestWritesRejectWhenStoreUnavailable(t *testing.T) {
	svc := newUnavailableService(t)
	ctx := context.Background()
	sess := unavailableSession()

	_, err := svc.CreateItem(ctx, sess, &model.MenuItem{Kind: model.KindPizza, Name: "Maison"})
	require.ErrorIs(t, err, store.ErrUnavailable)

	_, err = svc.ApplyEdit(ctx, sess, "some-id", model.ItemPatch{})
	require.ErrorIs(t, err, store.ErrUnavailable)

	err = svc.ApplyDelete(ctx, sess, "some-id")
	require.ErrorIs(t, err, store.ErrUnavailable)

	_, err = svc.PropagateIfEmpty(ctx, "tenant-1")
	require.ErrorIs(t, err, store.ErrUnavailable)
}

func TestResolveFailsClosedWhenStoreUnavailable(t *testing.T) {
	svc := newUnavailableService(t)

	// An unreachable profile store must not be confused with a missing
	// profile; no tenant default is ever fabricated.
	_, err := svc.Resolver().Resolve(context.Background(), "some-user")
	require.ErrorIs(t, err, store.ErrUnavailable)
	require.NotErrorIs(t, err, ErrProfileNotFound)
}
