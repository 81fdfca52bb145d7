package model

import "time"

// Settings is the per-tenant pizzeria settings document, keyed by tenant.
type Settings struct {
	Owner string `json:"owner" gorm:"type:varchar(64);primarykey"`

	LogoURL        string            `json:"logo_url" gorm:"type:text"`
	Name           string            `json:"name" gorm:"type:varchar(255)"`
	Address        string            `json:"address" gorm:"type:text"`
	Phone          string            `json:"phone" gorm:"type:varchar(32)"`
	Email          string            `json:"email" gorm:"type:varchar(100)"`
	DeletePassword string            `json:"delete_password" gorm:"type:varchar(64)"`
	OpeningHours   map[string]string `json:"opening_hours" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings document created on first read for a
// tenant that never saved one.
func DefaultSettings(owner string) *Settings {
	return &Settings{
		Owner:          owner,
		Address:        "123 Avenida da Liberdade, 1250-096 Lisboa, Portugal",
		Phone:          "+351 21 123 45 67",
		Email:          "contacto@pizza-delice.pt",
		DeletePassword: "delete123",
		OpeningHours: map[string]string{
			"monday":    "11h30 - 22h30",
			"tuesday":   "11h30 - 22h30",
			"wednesday": "11h30 - 22h30",
			"thursday":  "11h30 - 22h30",
			"friday":    "11h30 - 23h30",
			"saturday":  "11h30 - 23h30",
			"sunday":    "12h00 - 22h00",
		},
	}
}
