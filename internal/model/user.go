package model

import "time"

// UserRole enumerates the spaces a user may act in.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RolePizzeria UserRole = "pizzeria"
	RoleClient   UserRole = "client"
)

// User is the profile record backing an authenticated identity.
type User struct {
	ID       string `json:"id" gorm:"type:varchar(36);primarykey"`
	Email    string `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password string `json:"-" gorm:"type:varchar(255)"`

	Role          UserRole   `json:"role" gorm:"type:varchar(16);default:'client'"`
	Roles         []UserRole `json:"roles" gorm:"serializer:json"`
	SelectedSpace UserRole   `json:"selected_space" gorm:"type:varchar(16);default:'client'"`

	FullName string `json:"full_name" gorm:"type:varchar(255)"`
	Phone    string `json:"phone" gorm:"type:varchar(32)"`
	Address  string `json:"address" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRole reports whether the user may act in the given space.
func (u *User) HasRole(role UserRole) bool {
	if u.Role == role {
		return true
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanManageMenu reports whether the user may mutate menu records. This is a
// convenience check for early rejection; the store's own access rules remain
// the security boundary.
func (u *User) CanManageMenu() bool {
	return u.HasRole(RoleAdmin) || u.HasRole(RolePizzeria)
}
