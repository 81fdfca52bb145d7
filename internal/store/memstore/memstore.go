// Package memstore keeps every collection in process memory. It backs tests
// and the store-less development mode, honoring the same filter and event
// semantics as the Postgres driver.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"github.com/google/uuid"
)

// Store implements store.Store with mutex-guarded maps.
type Store struct {
	mu         sync.RWMutex
	items      map[string]model.MenuItem
	categories map[string]model.Category
	users      map[string]model.User
	orders     map[string]model.Order
	settings   map[string]model.Settings
	hub        *store.Hub
	now        func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		items:      make(map[string]model.MenuItem),
		categories: make(map[string]model.Category),
		users:      make(map[string]model.User),
		orders:     make(map[string]model.Order),
		settings:   make(map[string]model.Settings),
		hub:        store.NewHub(),
		now:        time.Now,
	}
}

// Events returns the change-subscription hub.
func (s *Store) Events() *store.Hub {
	return s.hub
}

// Ping always succeeds; the store lives in the same process.
func (s *Store) Ping(context.Context) error {
	return nil
}

func cloneItem(m model.MenuItem) model.MenuItem {
	out := m
	out.Ingredients = append([]string(nil), m.Ingredients...)
	out.CustomIngredients = append([]string(nil), m.CustomIngredients...)
	return out
}

func cloneOrder(o model.Order) model.Order {
	out := o
	out.Items = append([]model.OrderItem(nil), o.Items...)
	return out
}

func cloneUser(u model.User) model.User {
	out := u
	out.Roles = append([]model.UserRole(nil), u.Roles...)
	return out
}

func cloneSettings(s model.Settings) model.Settings {
	out := s
	if s.OpeningHours != nil {
		out.OpeningHours = make(map[string]string, len(s.OpeningHours))
		for k, v := range s.OpeningHours {
			out.OpeningHours[k] = v
		}
	}
	return out
}

func sortByCreation[T any](records []T, createdAt func(T) time.Time, id func(T) string) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := createdAt(records[i]), createdAt(records[j])
		if ti.Equal(tj) {
			return id(records[i]) < id(records[j])
		}
		return ti.Before(tj)
	})
}

// --- items ---

func (s *Store) GetItem(_ context.Context, id string) (*model.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneItem(item)
	return &out, nil
}

func (s *Store) QueryItems(_ context.Context, f store.ItemFilter) ([]model.MenuItem, error) {
	s.mu.RLock()
	var out []model.MenuItem
	for _, item := range s.items {
		if f.Owner != nil && item.Owner != *f.Owner {
			continue
		}
		if f.Kind != nil && item.Kind != *f.Kind {
			continue
		}
		if f.IsOverride != nil && item.IsOverride != *f.IsOverride {
			continue
		}
		if f.IsHidden != nil && item.IsHidden != *f.IsHidden {
			continue
		}
		if f.Active != nil && item.Active != *f.Active {
			continue
		}
		if f.MasterItemID != nil && item.MasterItemID != *f.MasterItemID {
			continue
		}
		out = append(out, cloneItem(item))
	}
	s.mu.RUnlock()
	sortByCreation(out, func(m model.MenuItem) time.Time { return m.CreatedAt }, func(m model.MenuItem) string { return m.ID })
	return out, nil
}

func (s *Store) CreateItem(_ context.Context, item *model.MenuItem) error {
	s.mu.Lock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	item.UpdatedAt = s.now()
	s.items[item.ID] = cloneItem(*item)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionItems, Op: store.OpCreated, ID: item.ID, Owner: item.Owner})
	return nil
}

func (s *Store) UpdateItem(_ context.Context, item *model.MenuItem) error {
	s.mu.Lock()
	existing, ok := s.items[item.ID]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = s.now()
	s.items[item.ID] = cloneItem(*item)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionItems, Op: store.OpUpdated, ID: item.ID, Owner: item.Owner})
	return nil
}

func (s *Store) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	item, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.items, id)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionItems, Op: store.OpDeleted, ID: id, Owner: item.Owner})
	return nil
}

// --- categories ---

func (s *Store) GetCategory(_ context.Context, id string) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := category
	return &out, nil
}

func (s *Store) QueryCategories(_ context.Context, f store.CategoryFilter) ([]model.Category, error) {
	s.mu.RLock()
	var out []model.Category
	for _, category := range s.categories {
		if f.Owner != nil && category.Owner != *f.Owner {
			continue
		}
		if f.Active != nil && category.Active != *f.Active {
			continue
		}
		out = append(out, category)
	}
	s.mu.RUnlock()
	sortByCreation(out, func(c model.Category) time.Time { return c.CreatedAt }, func(c model.Category) string { return c.ID })
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, category *model.Category) error {
	s.mu.Lock()
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = s.now()
	}
	category.UpdatedAt = s.now()
	s.categories[category.ID] = *category
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionCategories, Op: store.OpCreated, ID: category.ID, Owner: category.Owner})
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, category *model.Category) error {
	s.mu.Lock()
	existing, ok := s.categories[category.ID]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = s.now()
	s.categories[category.ID] = *category
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionCategories, Op: store.OpUpdated, ID: category.ID, Owner: category.Owner})
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	category, ok := s.categories[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.categories, id)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionCategories, Op: store.OpDeleted, ID: id, Owner: category.Owner})
	return nil
}

// --- users ---

func (s *Store) GetUser(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneUser(user)
	return &out, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			out := cloneUser(user)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	user.UpdatedAt = s.now()
	s.users[user.ID] = cloneUser(*user)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionUsers, Op: store.OpCreated, ID: user.ID, Owner: user.ID})
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	existing, ok := s.users[user.ID]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = s.now()
	s.users[user.ID] = cloneUser(*user)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionUsers, Op: store.OpUpdated, ID: user.ID, Owner: user.ID})
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	out := make([]model.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, cloneUser(user))
	}
	s.mu.RUnlock()
	sortByCreation(out, func(u model.User) time.Time { return u.CreatedAt }, func(u model.User) string { return u.ID })
	return out, nil
}

// --- orders ---

func (s *Store) GetOrder(_ context.Context, id string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneOrder(order)
	return &out, nil
}

func (s *Store) QueryOrders(_ context.Context, f store.OrderFilter) ([]model.Order, error) {
	s.mu.RLock()
	var out []model.Order
	for _, order := range s.orders {
		if f.UserID != nil && order.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && order.Status != *f.Status {
			continue
		}
		out = append(out, cloneOrder(order))
	}
	s.mu.RUnlock()
	// Most recent first, matching the customer-facing order lists.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CountOrders(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, order := range s.orders {
		if order.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateOrder(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	order.UpdatedAt = s.now()
	s.orders[order.ID] = cloneOrder(*order)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionOrders, Op: store.OpCreated, ID: order.ID, Owner: order.UserID})
	return nil
}

func (s *Store) UpdateOrder(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	existing, ok := s.orders[order.ID]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	order.CreatedAt = existing.CreatedAt
	order.UpdatedAt = s.now()
	s.orders[order.ID] = cloneOrder(*order)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionOrders, Op: store.OpUpdated, ID: order.ID, Owner: order.UserID})
	return nil
}

func (s *Store) DeleteOrdersByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	for id, order := range s.orders {
		if order.UserID == userID {
			delete(s.orders, id)
		}
	}
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionOrders, Op: store.OpDeleted, ID: "", Owner: userID})
	return nil
}

// --- settings ---

func (s *Store) GetSettings(_ context.Context, owner string) (*model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[owner]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneSettings(settings)
	return &out, nil
}

func (s *Store) SaveSettings(_ context.Context, settings *model.Settings) error {
	s.mu.Lock()
	if existing, ok := s.settings[settings.Owner]; ok {
		settings.CreatedAt = existing.CreatedAt
	} else if settings.CreatedAt.IsZero() {
		settings.CreatedAt = s.now()
	}
	settings.UpdatedAt = s.now()
	s.settings[settings.Owner] = cloneSettings(*settings)
	s.mu.Unlock()
	s.hub.Publish(store.Event{Collection: store.CollectionSettings, Op: store.OpUpdated, ID: settings.Owner, Owner: settings.Owner})
	return nil
}
