// Package gormstore backs the store capability with GORM on Postgres.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store implements store.Store on a *gorm.DB.
type Store struct {
	db  *gorm.DB
	hub *store.Hub
}

// New wraps the database handle. A nil handle yields a store whose every
// operation fails with store.ErrUnavailable.
func New(db *gorm.DB) *Store {
	return &Store{db: db, hub: store.NewHub()}
}

// Events returns the change-subscription hub.
func (s *Store) Events() *store.Hub {
	return s.hub
}

// Ping verifies the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return store.ErrUnavailable
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) session(ctx context.Context) (*gorm.DB, error) {
	if s.db == nil {
		return nil, store.ErrUnavailable
	}
	return s.db.WithContext(ctx), nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// --- items ---

func (s *Store) GetItem(ctx context.Context, id string) (*model.MenuItem, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	var item model.MenuItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *Store) QueryItems(ctx context.Context, f store.ItemFilter) ([]model.MenuItem, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Model(&model.MenuItem{})
	if f.Owner != nil {
		query = query.Where("owner = ?", *f.Owner)
	}
	if f.Kind != nil {
		query = query.Where("kind = ?", *f.Kind)
	}
	if f.IsOverride != nil {
		query = query.Where("is_override = ?", *f.IsOverride)
	}
	if f.IsHidden != nil {
		query = query.Where("is_hidden = ?", *f.IsHidden)
	}
	if f.Active != nil {
		query = query.Where("active = ?", *f.Active)
	}
	if f.MasterItemID != nil {
		query = query.Where("master_item_id = ?", *f.MasterItemID)
	}
	var items []model.MenuItem
	if err := query.Order("created_at, id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CreateItem(ctx context.Context, item *model.MenuItem) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := db.Create(item).Error; err != nil {
		return err
	}
	s.hub.Publish(store.Event{Collection: store.CollectionItems, Op: store.OpCreated, ID: item.ID, Owner: item.Owner})
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, item *model.MenuItem) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&model.MenuItem{}).Where("id = ?", item.ID).Select("*").Omit("id", "created_at").Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	s.hub.Publish(store.Event{Collection: store.CollectionItems, Op: store.OpUpdated, ID: item.ID, Owner: item.Owner})
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	var item model.MenuItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		return translate(err)
	}
	if err := db.Delete(&model.MenuItem{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.hub.Publish(store.Event{Collection: store.CollectionItems, Op: store.OpDeleted, ID: id, Owner: item.Owner})
	return nil
}

// --- categories ---

func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	var category model.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *Store) QueryCategories(ctx context.Context, f store.CategoryFilter) ([]model.Category, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Model(&model.Category{})
	if f.Owner != nil {
		query = query.Where("owner = ?", *f.Owner)
	}
	if f.Active != nil {
		query = query.Where("active = ?", *f.Active)
	}
	var categories []model.Category
	if err := query.Order("created_at, id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *model.Category) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := db.Create(category).Error; err != nil {
		return err
	}
	s.hub.Publish(store.Event{Collection: store.CollectionCategories, Op: store.OpCreated, ID: category.ID, Owner: category.Owner})
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, category *model.Category) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&model.Category{}).Where("id = ?", category.ID).Select("*").Omit("id", "created_at").Updates(category)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	s.hub.Publish(store.Event{Collection: store.CollectionCategories, Op: store.OpUpdated, ID: category.ID, Owner: category.Owner})
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	var category model.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		return translate(err)
	}
	if err := db.Delete(&model.Category{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.hub.Publish(store.Event{Collection: store.CollectionCategories, Op: store.OpDeleted, ID: id, Owner: category.Owner})
	return nil
}

// --- users ---

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := db.Create(user).Error; err != nil {
		return err
	}
	s.hub.Publish(store.Event{Collection: store.CollectionUsers, Op: store.OpCreated, ID: user.ID, Owner: user.ID})
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&model.User{}).Where("id = ?", user.ID).Select("*").Omit("id", "created_at").Updates(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	s.hub.Publish(store.Event{Collection: store.CollectionUsers, Op: store.OpUpdated, ID: user.ID, Owner: user.ID})
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := db.Order("created_at, id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// --- orders ---

func (s *Store) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	var order model.Order
	if err := db.First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Store) QueryOrders(ctx context.Context, f store.OrderFilter) ([]model.Order, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Model(&model.Order{})
	if f.UserID != nil {
		query = query.Where("user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	var orders []model.Order
	if err := query.Order("created_at desc, id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) CountOrders(ctx context.Context, userID string) (int64, error) {
	db, err := s.session(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := db.Create(order).Error; err != nil {
		return err
	}
	s.hub.Publish(store.Event{Collection: store.CollectionOrders, Op: store.OpCreated, ID: order.ID, Owner: order.UserID})
	return nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *model.Order) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&model.Order{}).Where("id = ?", order.ID).Select("*").Omit("id", "created_at").Updates(order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	s.hub.Publish(store.Event{Collection: store.CollectionOrders, Op: store.OpUpdated, ID: order.ID, Owner: order.UserID})
	return nil
}

func (s *Store) DeleteOrdersByUser(ctx context.Context, userID string) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	if err := db.Delete(&model.Order{}, "user_id = ?", userID).Error; err != nil {
		return err
	}
	s.hub.Publish(store.Event{Collection: store.CollectionOrders, Op: store.OpDeleted, ID: "", Owner: userID})
	return nil
}

// --- settings ---

func (s *Store) GetSettings(ctx context.Context, owner string) (*model.Settings, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	var settings model.Settings
	if err := db.First(&settings, "owner = ?", owner).Error; err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings *model.Settings) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}
	if err := db.Save(settings).Error; err != nil {
		return err
	}
	s.hub.Publish(store.Event{Collection: store.CollectionSettings, Op: store.OpUpdated, ID: settings.Owner, Owner: settings.Owner})
	return nil
}
