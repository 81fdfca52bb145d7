package menu

import (
	"context"
	"fmt"
	"time"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"go.uber.org/zap"
)

// CreateItem creates an original item owned by the session's tenant.
func (s *Service) CreateItem(ctx context.Context, sess *Session, item *model.MenuItem) (*model.MenuItem, error) {
	if !sess.CanManageMenu() {
		return nil, fmt.Errorf("%w: role %q cannot manage the menu", ErrPermissionDenied, sess.User.Role)
	}

	item.ID = ""
	item.Owner = sess.Tenant
	item.IsOverride = false
	item.MasterItemID = ""
	item.IsHidden = false
	item.Active = true
	item.CreatedAt = time.Time{}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("Menu item created",
		zap.String("item_id", item.ID),
		zap.String("tenant", sess.Tenant),
		zap.String("name", item.Name))
	return item, nil
}

// ApplyEdit applies a tenant's edit of a possibly master-owned item. Tenant
// records are patched in place; a master record is never touched by a
// non-master session, which instead gets an override record created or
// updated (upsert on the (tenant, master item) pair).
func (s *Service) ApplyEdit(ctx context.Context, sess *Session, itemID string, patch model.ItemPatch) (*model.MenuItem, error) {
	if !sess.CanManageMenu() {
		return nil, fmt.Errorf("%w: role %q cannot manage the menu", ErrPermissionDenied, sess.User.Role)
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Direct mutation path: the tenant already owns the record, whether it
	// is an original or a previously created override. Hiding is an
	// override-only state; an owned original is deleted, never hidden.
	if item.Owner == sess.Tenant {
		if patch.IsHidden != nil && *patch.IsHidden && !item.IsOverride {
			return nil, fmt.Errorf("%w: %s", model.ErrHiddenWithoutOverride, itemID)
		}
		patch.Apply(item)
		if err := s.store.UpdateItem(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	}

	if item.Owner != model.MasterTenant {
		return nil, fmt.Errorf("%w: item %s belongs to another tenant", ErrPermissionDenied, itemID)
	}

	override, err := s.findOverride(ctx, sess.Tenant, itemID)
	if err != nil {
		return nil, err
	}
	if override != nil {
		patch.Apply(override)
		if err := s.store.UpdateItem(ctx, override); err != nil {
			return nil, err
		}
		s.log.Info("Override updated",
			zap.String("override_id", override.ID),
			zap.String("master_item_id", itemID),
			zap.String("tenant", sess.Tenant))
		return override, nil
	}

	shadow := s.snapshotAsOverride(item, sess.Tenant)
	patch.Apply(shadow)
	if err := s.store.CreateItem(ctx, shadow); err != nil {
		return nil, err
	}
	s.log.Info("Override created",
		zap.String("override_id", shadow.ID),
		zap.String("master_item_id", itemID),
		zap.String("tenant", sess.Tenant))
	return shadow, nil
}

// ApplyDelete deletes a tenant-owned item outright; for a master-owned item
// it creates or updates a hidden override (tombstone) so the master record
// and the other tenants' menus stay intact.
func (s *Service) ApplyDelete(ctx context.Context, sess *Session, itemID string) error {
	if !sess.CanManageMenu() {
		return fmt.Errorf("%w: role %q cannot manage the menu", ErrPermissionDenied, sess.User.Role)
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	if item.Owner == sess.Tenant {
		if err := s.store.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		s.log.Info("Menu item deleted",
			zap.String("item_id", itemID),
			zap.String("tenant", sess.Tenant))
		return nil
	}

	if item.Owner != model.MasterTenant {
		return fmt.Errorf("%w: item %s belongs to another tenant", ErrPermissionDenied, itemID)
	}

	override, err := s.findOverride(ctx, sess.Tenant, itemID)
	if err != nil {
		return err
	}
	if override != nil {
		override.IsHidden = true
		if err := s.store.UpdateItem(ctx, override); err != nil {
			return err
		}
		s.log.Info("Override hidden",
			zap.String("override_id", override.ID),
			zap.String("master_item_id", itemID),
			zap.String("tenant", sess.Tenant))
		return nil
	}

	shadow := s.snapshotAsOverride(item, sess.Tenant)
	shadow.IsHidden = true
	if err := s.store.CreateItem(ctx, shadow); err != nil {
		return err
	}
	s.log.Info("Hidden override created",
		zap.String("override_id", shadow.ID),
		zap.String("master_item_id", itemID),
		zap.String("tenant", sess.Tenant))
	return nil
}

// findOverride returns the tenant's override for a master item, or nil when
// none exists. Should more than one exist, the earliest-created wins.
func (s *Service) findOverride(ctx context.Context, tenant, masterItemID string) (*model.MenuItem, error) {
	overrides, err := s.store.QueryItems(ctx, store.ItemFilter{
		Owner:        store.Of(tenant),
		IsOverride:   store.Of(true),
		MasterItemID: store.Of(masterItemID),
	})
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return nil, nil
	}
	if len(overrides) > 1 {
		s.log.Warn("Multiple overrides found for master item, using earliest",
			zap.String("master_item_id", masterItemID),
			zap.String("tenant", tenant),
			zap.Int("count", len(overrides)),
			zap.Error(ErrOverrideConflict))
	}
	return &overrides[0], nil
}

// snapshotAsOverride copies the master record into a tenant-owned shadow.
// Hidden overrides carry the full content snapshot too; one record shape
// serves both the "modified" and "hidden" cases.
func (s *Service) snapshotAsOverride(master *model.MenuItem, tenant string) *model.MenuItem {
	shadow := *master
	shadow.ID = ""
	shadow.Owner = tenant
	shadow.IsOverride = true
	shadow.MasterItemID = master.ID
	shadow.IsHidden = false
	shadow.CreatedAt = time.Time{}
	shadow.UpdatedAt = time.Time{}
	shadow.Ingredients = append([]string(nil), master.Ingredients...)
	shadow.CustomIngredients = append([]string(nil), master.CustomIngredients...)
	return &shadow
}
