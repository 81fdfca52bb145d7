package menu

import (
	"context"
	"errors"
	"fmt"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"
)

// Resolver maps an authenticated identity to the tenant key used for all
// storage partitioning. The master account is recognized by its registered
// email, not by a provider uid that would differ per deployment.
type Resolver struct {
	users       store.UserStore
	masterEmail string
}

// NewResolver builds a resolver over the user profile store.
func NewResolver(users store.UserStore, masterEmail string) *Resolver {
	return &Resolver{users: users, masterEmail: masterEmail}
}

// Resolve returns "master" for the master account, the user id otherwise.
// A missing profile yields ErrProfileNotFound; callers must never fall back
// to treating an unresolved identity as master or as a fresh tenant.
func (r *Resolver) Resolve(ctx context.Context, userID string) (string, error) {
	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
		}
		return "", err
	}
	return r.TenantFor(user), nil
}

// TenantFor derives the tenant key from an already-loaded profile.
func (r *Resolver) TenantFor(user *model.User) string {
	if user.Email == r.masterEmail {
		return model.MasterTenant
	}
	return user.ID
}

// Session loads the profile and wraps it with its resolved tenant key.
func (r *Resolver) Session(ctx context.Context, userID string) (*Session, error) {
	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
		}
		return nil, err
	}
	return &Session{User: user, Tenant: r.TenantFor(user)}, nil
}
