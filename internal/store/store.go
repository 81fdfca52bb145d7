// Package store defines the document-store capability the menu resolver
// consumes: get by id, equality-filter queries, create/update/delete and
// change subscriptions. Two drivers implement it: gormstore (Postgres) and
// memstore (in-process, for tests and store-less development).
package store

import (
	"context"
	"errors"

	"pizzeria-service/internal/model"
)

var (
	// ErrNotFound is returned when a document id resolves to nothing.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable is returned when the store is unreachable or
	// unconfigured. Callers fail closed rather than fabricate data.
	ErrUnavailable = errors.New("document store unavailable")
)

// Of returns a pointer to v, for building equality filters in place.
func Of[T any](v T) *T { return &v }

// ItemFilter selects menu items by field equality. Nil fields match anything.
type ItemFilter struct {
	Owner        *string
	Kind         *model.ItemKind
	IsOverride   *bool
	IsHidden     *bool
	Active       *bool
	MasterItemID *string
}

// CategoryFilter selects categories by field equality.
type CategoryFilter struct {
	Owner  *string
	Active *bool
}

// OrderFilter selects orders by field equality.
type OrderFilter struct {
	UserID *string
	Status *model.OrderStatus
}

// Store is the full persistence surface of the service.
type Store interface {
	ItemStore
	CategoryStore
	UserStore
	OrderStore
	SettingsStore

	// Events exposes the change-subscription hub fed by every write.
	Events() *Hub
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// ItemStore persists menu items (pizzas and extras).
type ItemStore interface {
	GetItem(ctx context.Context, id string) (*model.MenuItem, error)
	QueryItems(ctx context.Context, f ItemFilter) ([]model.MenuItem, error)
	// CreateItem assigns a fresh id when the record carries none.
	CreateItem(ctx context.Context, item *model.MenuItem) error
	UpdateItem(ctx context.Context, item *model.MenuItem) error
	DeleteItem(ctx context.Context, id string) error
}

// CategoryStore persists menu categories.
type CategoryStore interface {
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	QueryCategories(ctx context.Context, f CategoryFilter) ([]model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// UserStore persists user profiles.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// OrderStore persists orders.
type OrderStore interface {
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	QueryOrders(ctx context.Context, f OrderFilter) ([]model.Order, error)
	CountOrders(ctx context.Context, userID string) (int64, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	UpdateOrder(ctx context.Context, order *model.Order) error
	DeleteOrdersByUser(ctx context.Context, userID string) error
}

// SettingsStore persists the per-tenant settings document.
type SettingsStore interface {
	// GetSettings returns ErrNotFound when the tenant never saved settings.
	GetSettings(ctx context.Context, owner string) (*model.Settings, error)
	SaveSettings(ctx context.Context, settings *model.Settings) error
}
