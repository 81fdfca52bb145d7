package model

import "time"

// Category groups menu items for presentation. Categories follow the same
// master/tenant ownership scheme as items; a tenant record carrying a
// MasterCategoryID shadows the referenced master category for that tenant.
type Category struct {
	ID          string `json:"id" gorm:"type:varchar(36);primarykey"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:text"`

	Owner            string `json:"owner" gorm:"type:varchar(64);index;not null"`
	MasterCategoryID string `json:"master_category_id,omitempty" gorm:"type:varchar(36);index"`
	Active           bool   `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "menu_categories"
}

// CategoryPatch carries optional category updates; nil fields are untouched.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// Apply writes the non-nil patch fields onto the category.
func (p *CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
}
