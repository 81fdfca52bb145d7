package model

import (
	"errors"
	"time"
)

// MasterTenant is the reserved tenant key owning the shared template menu.
const MasterTenant = "master"

// ItemKind distinguishes the two menu entity families stored in menu_items.
type ItemKind string

const (
	KindPizza ItemKind = "pizza"
	KindExtra ItemKind = "extra"
)

// Variant classifies a stored record for the merge engine. The three cases
// are mutually exclusive: a master original, a tenant override shadowing a
// master original, or a tenant-owned original.
type Variant int

const (
	VariantMaster Variant = iota
	VariantOverride
	VariantOwned
)

var (
	// ErrHiddenWithoutOverride marks a record flagged hidden that shadows nothing.
	ErrHiddenWithoutOverride = errors.New("item is hidden but not an override")
	// ErrOverrideWithoutMaster marks an override that lost its master reference.
	ErrOverrideWithoutMaster = errors.New("override has no master item id")
	// ErrMasterOverride marks an override record claiming master ownership.
	ErrMasterOverride = errors.New("master-owned item cannot be an override")
)

// Prices holds the per-size price structure of a pizza.
type Prices struct {
	Small  float64 `json:"small" gorm:"column:price_small"`
	Medium float64 `json:"medium" gorm:"column:price_medium"`
	Large  float64 `json:"large" gorm:"column:price_large"`
}

// MenuItem is a template-able menu entity (pizza or extra).
//
// Ownership and shadowing are carried by Owner, IsOverride, MasterItemID and
// IsHidden; everything else is content the resolver treats as opaque.
type MenuItem struct {
	ID   string   `json:"id" gorm:"type:varchar(36);primarykey"`
	Kind ItemKind `json:"kind" gorm:"type:varchar(16);index;not null"`

	Name        string   `json:"name" gorm:"type:varchar(255);not null"`
	Description string   `json:"description" gorm:"type:text"`
	ImageURL    string   `json:"image_url" gorm:"type:text"`
	Category    string   `json:"category" gorm:"type:varchar(100)"`
	Ingredients []string `json:"ingredients" gorm:"serializer:json"`
	Vegetarian  bool     `json:"vegetarian" gorm:"default:false"`

	Prices         Prices  `json:"prices" gorm:"embedded"`
	HasUniquePrice bool    `json:"has_unique_price" gorm:"default:false"`
	UniquePrice    float64 `json:"unique_price,omitempty"`

	Customizable         bool     `json:"customizable" gorm:"default:false"`
	MaxCustomIngredients int      `json:"max_custom_ingredients" gorm:"default:3"`
	CustomIngredients    []string `json:"custom_ingredients" gorm:"serializer:json"`

	// Owner is the tenant key: "master" or a resolved user id.
	Owner        string `json:"owner" gorm:"type:varchar(64);index;not null"`
	IsOverride   bool   `json:"is_override" gorm:"default:false"`
	MasterItemID string `json:"master_item_id,omitempty" gorm:"type:varchar(36);index"`
	IsHidden     bool   `json:"is_hidden" gorm:"default:false"`
	Active       bool   `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Variant reports which of the three record shapes this item is, rejecting
// the flag combinations that have no meaning.
func (m *MenuItem) Variant() (Variant, error) {
	switch {
	case m.IsOverride && m.Owner == MasterTenant:
		return VariantMaster, ErrMasterOverride
	case m.IsOverride && m.MasterItemID == "":
		return VariantOverride, ErrOverrideWithoutMaster
	case m.IsHidden && !m.IsOverride:
		return VariantOwned, ErrHiddenWithoutOverride
	case m.Owner == MasterTenant:
		return VariantMaster, nil
	case m.IsOverride:
		return VariantOverride, nil
	default:
		return VariantOwned, nil
	}
}

// ItemPatch carries the optional content updates a tenant may apply to an
// item. Nil fields are left untouched, matching partial document updates.
type ItemPatch struct {
	Name                 *string   `json:"name,omitempty"`
	Description          *string   `json:"description,omitempty"`
	ImageURL             *string   `json:"image_url,omitempty"`
	Category             *string   `json:"category,omitempty"`
	Ingredients          *[]string `json:"ingredients,omitempty"`
	Vegetarian           *bool     `json:"vegetarian,omitempty"`
	Prices               *Prices   `json:"prices,omitempty"`
	HasUniquePrice       *bool     `json:"has_unique_price,omitempty"`
	UniquePrice          *float64  `json:"unique_price,omitempty"`
	Customizable         *bool     `json:"customizable,omitempty"`
	MaxCustomIngredients *int      `json:"max_custom_ingredients,omitempty"`
	CustomIngredients    *[]string `json:"custom_ingredients,omitempty"`
	Active               *bool     `json:"active,omitempty"`
	IsHidden             *bool     `json:"is_hidden,omitempty"`
}

// Apply writes the non-nil patch fields onto the item.
func (p *ItemPatch) Apply(m *MenuItem) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Ingredients != nil {
		m.Ingredients = *p.Ingredients
	}
	if p.Vegetarian != nil {
		m.Vegetarian = *p.Vegetarian
	}
	if p.Prices != nil {
		m.Prices = *p.Prices
	}
	if p.HasUniquePrice != nil {
		m.HasUniquePrice = *p.HasUniquePrice
	}
	if p.UniquePrice != nil {
		m.UniquePrice = *p.UniquePrice
	}
	if p.Customizable != nil {
		m.Customizable = *p.Customizable
	}
	if p.MaxCustomIngredients != nil {
		m.MaxCustomIngredients = *p.MaxCustomIngredients
	}
	if p.CustomIngredients != nil {
		m.CustomIngredients = *p.CustomIngredients
	}
	if p.Active != nil {
		m.Active = *p.Active
	}
	if p.IsHidden != nil {
		m.IsHidden = *p.IsHidden
	}
}

// TableName keeps pizzas and extras in a single collection, as the resolver
// treats them uniformly.
func (MenuItem) TableName() string {
	return "menu_items"
}
