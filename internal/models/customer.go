package models

import (
	"time"
)

// Address is the structured delivery/home address stored on customers and
// snapshotted onto orders.
type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Landmark string `json:"landmark"`
}

// Customer represents a phone-verified customer of the store.
type Customer struct {
	BaseModel
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Phone          string  `gorm:"uniqueIndex" json:"phone"`
	Email          string  `json:"email"`
	ExternalAuthID *string `gorm:"uniqueIndex" json:"external_auth_id,omitempty"`
	Address        Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	IsVerified     bool    `json:"is_verified"`

	// Denormalized order statistics, maintained by the order service.
	TotalOrders   int        `json:"total_orders"`
	TotalSpent    float64    `json:"total_spent"`
	LastOrderDate *time.Time `json:"last_order_date"`

	LastLogin *time.Time `json:"last_login"`
	Orders    []Order    `json:"orders,omitempty"`
}
