package menu

import (
	"context"
	"fmt"
	"time"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"go.uber.org/zap"
)

// CreateCategory creates a category owned by the session's tenant.
func (s *Service) CreateCategory(ctx context.Context, sess *Session, category *model.Category) (*model.Category, error) {
	if !sess.CanManageMenu() {
		return nil, fmt.Errorf("%w: role %q cannot manage the menu", ErrPermissionDenied, sess.User.Role)
	}

	category.ID = ""
	category.Owner = sess.Tenant
	category.MasterCategoryID = ""
	category.Active = true
	category.CreatedAt = time.Time{}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.log.Info("Category created",
		zap.String("category_id", category.ID),
		zap.String("tenant", sess.Tenant),
		zap.String("name", category.Name))
	return category, nil
}

// UpdateCategory patches a tenant-owned category in place. Editing a
// master-owned category as a non-master tenant upserts a shadow record keyed
// by MasterCategoryID, leaving the master record untouched.
func (s *Service) UpdateCategory(ctx context.Context, sess *Session, categoryID string, patch model.CategoryPatch) (*model.Category, error) {
	if !sess.CanManageMenu() {
		return nil, fmt.Errorf("%w: role %q cannot manage the menu", ErrPermissionDenied, sess.User.Role)
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if category.Owner == sess.Tenant {
		patch.Apply(category)
		if err := s.store.UpdateCategory(ctx, category); err != nil {
			return nil, err
		}
		return category, nil
	}

	if category.Owner != model.MasterTenant {
		return nil, fmt.Errorf("%w: category %s belongs to another tenant", ErrPermissionDenied, categoryID)
	}

	override, err := s.findCategoryOverride(ctx, sess.Tenant, categoryID)
	if err != nil {
		return nil, err
	}
	if override != nil {
		patch.Apply(override)
		if err := s.store.UpdateCategory(ctx, override); err != nil {
			return nil, err
		}
		return override, nil
	}

	shadow := *category
	shadow.ID = ""
	shadow.Owner = sess.Tenant
	shadow.MasterCategoryID = category.ID
	shadow.CreatedAt = time.Time{}
	shadow.UpdatedAt = time.Time{}
	patch.Apply(&shadow)
	if err := s.store.CreateCategory(ctx, &shadow); err != nil {
		return nil, err
	}
	s.log.Info("Category override created",
		zap.String("category_id", shadow.ID),
		zap.String("master_category_id", categoryID),
		zap.String("tenant", sess.Tenant))
	return &shadow, nil
}

// DeleteCategory removes a tenant-owned category. Master categories can only
// be deleted by the master tenant.
func (s *Service) DeleteCategory(ctx context.Context, sess *Session, categoryID string) error {
	if !sess.CanManageMenu() {
		return fmt.Errorf("%w: role %q cannot manage the menu", ErrPermissionDenied, sess.User.Role)
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.Owner != sess.Tenant {
		return fmt.Errorf("%w: category %s belongs to another tenant", ErrPermissionDenied, categoryID)
	}
	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	s.log.Info("Category deleted",
		zap.String("category_id", categoryID),
		zap.String("tenant", sess.Tenant))
	return nil
}

func (s *Service) findCategoryOverride(ctx context.Context, tenant, masterCategoryID string) (*model.Category, error) {
	categories, err := s.store.QueryCategories(ctx, store.CategoryFilter{Owner: store.Of(tenant)})
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].MasterCategoryID == masterCategoryID {
			return &categories[i], nil
		}
	}
	return nil, nil
}
