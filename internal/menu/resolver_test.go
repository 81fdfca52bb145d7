package menu

import (
	"context"
	"testing"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMasterEmail = "master@pizzeria.com"

func TestResolveMasterByEmail(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	master := model.User{Email: testMasterEmail, Role: model.RoleAdmin}
	require.NoError(t, st.CreateUser(ctx, &master))

	r := NewResolver(st, testMasterEmail)
	tenant, err := r.Resolve(ctx, master.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MasterTenant, tenant)
}

func TestResolveRegularUserGetsOwnID(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	user := model.User{Email: "tenant@example.com", Role: model.RoleClient}
	require.NoError(t, st.CreateUser(ctx, &user))

	r := NewResolver(st, testMasterEmail)
	tenant, err := r.Resolve(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, tenant)
}

func TestResolveMissingProfile(t *testing.T) {
	st := memstore.New()
	r := NewResolver(st, testMasterEmail)

	_, err := r.Resolve(context.Background(), "no-such-user")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSessionCarriesTenant(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	user := model.User{Email: "tenant@example.com", Roles: []model.UserRole{model.RolePizzeria}}
	require.NoError(t, st.CreateUser(ctx, &user))

	r := NewResolver(st, testMasterEmail)
	sess, err := r.Session(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.Tenant)
	assert.False(t, sess.IsMaster())
	assert.True(t, sess.CanManageMenu())
}
