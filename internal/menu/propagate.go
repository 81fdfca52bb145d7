package menu

import (
	"context"
	"time"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"go.uber.org/zap"
)

// PropagateIfEmpty bootstraps a new tenant's menu from the master template.
// It copies every master item and master category as tenant-owned originals
// with fresh ids and timestamps, subsequently independent of master edits.
//
// The idempotence check is coarse: the presence of any tenant-owned item
// skips the copy. A tenant who deletes every owned item is re-propagated on
// the next call; that matches the behavior this service replaces.
func (s *Service) PropagateIfEmpty(ctx context.Context, tenant string) (int, error) {
	if tenant == model.MasterTenant {
		return 0, nil
	}

	owned, err := s.store.QueryItems(ctx, store.ItemFilter{
		Owner:      store.Of(tenant),
		IsOverride: store.Of(false),
	})
	if err != nil {
		return 0, err
	}
	if len(owned) > 0 {
		s.log.Debug("Tenant already has items, skipping propagation",
			zap.String("tenant", tenant),
			zap.Int("count", len(owned)))
		return 0, nil
	}

	masters, err := s.store.QueryItems(ctx, store.ItemFilter{
		Owner: store.Of(model.MasterTenant),
	})
	if err != nil {
		return 0, err
	}

	copied := 0
	for i := range masters {
		item := copyAsOwned(&masters[i], tenant)
		if err := s.store.CreateItem(ctx, item); err != nil {
			return copied, err
		}
		copied++
	}

	masterCategories, err := s.store.QueryCategories(ctx, store.CategoryFilter{
		Owner: store.Of(model.MasterTenant),
	})
	if err != nil {
		return copied, err
	}
	for i := range masterCategories {
		category := masterCategories[i]
		category.ID = ""
		category.Owner = tenant
		category.MasterCategoryID = ""
		category.Active = true
		category.CreatedAt = time.Time{}
		category.UpdatedAt = time.Time{}
		if err := s.store.CreateCategory(ctx, &category); err != nil {
			return copied, err
		}
		copied++
	}

	s.log.Info("Master template propagated to tenant",
		zap.String("tenant", tenant),
		zap.Int("items", len(masters)),
		zap.Int("categories", len(masterCategories)))
	return copied, nil
}

// copyAsOwned duplicates a master item as a tenant original. The copy keeps
// no link back to the master; future master edits do not reach it.
func copyAsOwned(master *model.MenuItem, tenant string) *model.MenuItem {
	item := *master
	item.ID = ""
	item.Owner = tenant
	item.IsOverride = false
	item.MasterItemID = ""
	item.IsHidden = false
	item.Active = true
	item.CreatedAt = time.Time{}
	item.UpdatedAt = time.Time{}
	item.Ingredients = append([]string(nil), master.Ingredients...)
	item.CustomIngredients = append([]string(nil), master.CustomIngredients...)
	return &item
}
