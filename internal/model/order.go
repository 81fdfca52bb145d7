package model

import "time"

// OrderStatus tracks an order through the pickup lifecycle. The values match
// the documents the customer app stores.
type OrderStatus string

const (
	StatusPending   OrderStatus = "en_attente"
	StatusConfirmed OrderStatus = "confirmee"
	StatusPreparing OrderStatus = "en_preparation"
	StatusReady     OrderStatus = "prete"
	StatusPickedUp  OrderStatus = "recuperee"
	StatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known lifecycle values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusPickedUp, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is one cart line. Prices and names are snapshotted at order time
// so later menu edits do not rewrite order history.
type OrderItem struct {
	ItemID             string   `json:"item_id"`
	Name               string   `json:"name"`
	Category           string   `json:"category,omitempty"`
	Size               string   `json:"size"`
	Quantity           int      `json:"quantity"`
	Price              float64  `json:"price"`
	RemovedIngredients []string `json:"removed_ingredients,omitempty"`
	Extras             []string `json:"extras,omitempty"`
	CustomIngredients  []string `json:"custom_ingredients,omitempty"`
}

// OrderCustomer snapshots the contact details the pizzeria needs to fulfil
// the order.
type OrderCustomer struct {
	FullName string `json:"full_name" gorm:"column:customer_name"`
	Phone    string `json:"phone" gorm:"column:customer_phone"`
	Address  string `json:"address" gorm:"column:customer_address"`
	Email    string `json:"email" gorm:"column:customer_email"`
}

// Order is consumed by the UI as opaque data; the resolver never merges it.
type Order struct {
	ID          string `json:"id" gorm:"type:varchar(36);primarykey"`
	OrderNumber int    `json:"order_number" gorm:"index"`
	UserID      string `json:"user_id" gorm:"type:varchar(64);index;not null"`

	Customer      OrderCustomer `json:"user" gorm:"embedded"`
	PickupAddress string        `json:"pickup_address" gorm:"type:text"`
	Items         []OrderItem   `json:"items" gorm:"serializer:json"`
	Total         float64       `json:"total"`

	Status          OrderStatus `json:"status" gorm:"type:varchar(24);index;default:'en_attente'"`
	PreparationTime int         `json:"preparation_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
