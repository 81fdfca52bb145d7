package menu

import (
	"context"
	"errors"
	"sort"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"

	"go.uber.org/zap"
)

// EffectiveItems produces the de-duplicated menu visible to a tenant.
//
// The master tenant sees its own active items as-is. Every other tenant sees
// the active master set with its overrides applied (hidden overrides remove
// the master item entirely), plus its own active originals. The three
// sub-queries are not snapshot-isolated against concurrent writes; a write
// landing between them can yield a transiently stale merge.
func (s *Service) EffectiveItems(ctx context.Context, tenant string) ([]model.MenuItem, error) {
	if tenant == model.MasterTenant {
		items, err := s.queryItemsDegraded(ctx, store.ItemFilter{
			Owner:  store.Of(model.MasterTenant),
			Active: store.Of(true),
		})
		if err != nil {
			return nil, err
		}
		sortMenu(items)
		return items, nil
	}

	masters, err := s.queryItemsDegraded(ctx, store.ItemFilter{
		Owner:  store.Of(model.MasterTenant),
		Active: store.Of(true),
	})
	if err != nil {
		return nil, err
	}
	overrides, err := s.queryItemsDegraded(ctx, store.ItemFilter{
		Owner:      store.Of(tenant),
		IsOverride: store.Of(true),
	})
	if err != nil {
		return nil, err
	}
	owned, err := s.queryItemsDegraded(ctx, store.ItemFilter{
		Owner:      store.Of(tenant),
		IsOverride: store.Of(false),
		Active:     store.Of(true),
	})
	if err != nil {
		return nil, err
	}

	merged := s.merge(tenant, masters, overrides)
	merged = append(merged, owned...)
	sortMenu(merged)
	return merged, nil
}

// merge applies the override set to the master set. Overrides arrive in
// creation order; when two records shadow the same master item the earliest
// one wins and the rest are reported, never both included.
func (s *Service) merge(tenant string, masters, overrides []model.MenuItem) []model.MenuItem {
	byMaster := make(map[string]model.MenuItem, len(overrides))
	for _, o := range overrides {
		if _, err := o.Variant(); err != nil {
			s.log.Warn("Skipping malformed override record",
				zap.String("item_id", o.ID),
				zap.String("tenant", tenant),
				zap.Error(err))
			continue
		}
		if _, dup := byMaster[o.MasterItemID]; dup {
			s.log.Warn("Duplicate override for master item, keeping earliest",
				zap.String("master_item_id", o.MasterItemID),
				zap.String("tenant", tenant),
				zap.String("ignored_id", o.ID),
				zap.Error(ErrOverrideConflict))
			continue
		}
		byMaster[o.MasterItemID] = o
	}

	result := make([]model.MenuItem, 0, len(masters))
	for _, m := range masters {
		override, ok := byMaster[m.ID]
		if !ok {
			result = append(result, m)
			continue
		}
		if override.IsHidden {
			continue
		}
		result = append(result, override)
	}
	return result
}

// EffectiveCategories merges master categories with the tenant's shadows and
// originals, mirroring the item merge keyed on MasterCategoryID.
func (s *Service) EffectiveCategories(ctx context.Context, tenant string) ([]model.Category, error) {
	masters, err := s.queryCategoriesDegraded(ctx, store.CategoryFilter{
		Owner:  store.Of(model.MasterTenant),
		Active: store.Of(true),
	})
	if err != nil {
		return nil, err
	}
	if tenant == model.MasterTenant {
		sortCategories(masters)
		return masters, nil
	}

	tenantCats, err := s.queryCategoriesDegraded(ctx, store.CategoryFilter{
		Owner:  store.Of(tenant),
		Active: store.Of(true),
	})
	if err != nil {
		return nil, err
	}

	byMaster := make(map[string]model.Category)
	var owned []model.Category
	for _, c := range tenantCats {
		if c.MasterCategoryID == "" {
			owned = append(owned, c)
			continue
		}
		if _, dup := byMaster[c.MasterCategoryID]; dup {
			s.log.Warn("Duplicate category override, keeping earliest",
				zap.String("master_category_id", c.MasterCategoryID),
				zap.String("tenant", tenant),
				zap.Error(ErrOverrideConflict))
			continue
		}
		byMaster[c.MasterCategoryID] = c
	}

	result := make([]model.Category, 0, len(masters)+len(owned))
	for _, m := range masters {
		if override, ok := byMaster[m.ID]; ok {
			result = append(result, override)
			continue
		}
		result = append(result, m)
	}
	result = append(result, owned...)
	sortCategories(result)
	return result, nil
}

// TenantItems returns the raw records a tenant owns (originals and
// overrides), unmerged, for management screens.
func (s *Service) TenantItems(ctx context.Context, tenant string) ([]model.MenuItem, error) {
	items, err := s.queryItemsDegraded(ctx, store.ItemFilter{Owner: store.Of(tenant)})
	if err != nil {
		return nil, err
	}
	sortMenu(items)
	return items, nil
}

// OverrideConflict identifies one violated (tenant, master item) uniqueness
// pair and the records involved.
type OverrideConflict struct {
	Owner        string   `json:"owner"`
	MasterItemID string   `json:"master_item_id"`
	ItemIDs      []string `json:"item_ids"`
}

// OverrideConflicts audits the whole item collection for duplicate override
// pairs. An empty result means the writer's upsert invariant holds.
func (s *Service) OverrideConflicts(ctx context.Context) ([]OverrideConflict, error) {
	overrides, err := s.store.QueryItems(ctx, store.ItemFilter{IsOverride: store.Of(true)})
	if err != nil {
		return nil, err
	}

	type pair struct{ owner, master string }
	grouped := make(map[pair][]string)
	var keys []pair
	for _, o := range overrides {
		p := pair{owner: o.Owner, master: o.MasterItemID}
		if _, seen := grouped[p]; !seen {
			keys = append(keys, p)
		}
		grouped[p] = append(grouped[p], o.ID)
	}

	var conflicts []OverrideConflict
	for _, p := range keys {
		ids := grouped[p]
		if len(ids) < 2 {
			continue
		}
		conflicts = append(conflicts, OverrideConflict{Owner: p.owner, MasterItemID: p.master, ItemIDs: ids})
	}
	return conflicts, nil
}

// queryItemsDegraded degrades an unreachable store to an empty read instead
// of failing the whole request; no fabricated fallback data is served.
func (s *Service) queryItemsDegraded(ctx context.Context, f store.ItemFilter) ([]model.MenuItem, error) {
	items, err := s.store.QueryItems(ctx, f)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			s.log.Warn("Document store unavailable, serving empty item set", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *Service) queryCategoriesDegraded(ctx context.Context, f store.CategoryFilter) ([]model.Category, error) {
	categories, err := s.store.QueryCategories(ctx, f)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			s.log.Warn("Document store unavailable, serving empty category set", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return categories, nil
}

// sortMenu orders items by category, then name, then id. The merge itself
// defines no ordering; this keeps presentation deterministic.
func sortMenu(items []model.MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}

func sortCategories(categories []model.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})
}
