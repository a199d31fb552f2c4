package models

import (
	"time"

	"github.com/google/uuid"
)

// Order status values. Transitions are caller-directed; the service accepts
// any enumerated status from any non-terminal state.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment status values.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

type Order struct {
	BaseModel
	OrderNumber string      `gorm:"uniqueIndex" json:"order_number"`
	CustomerID  uuid.UUID   `gorm:"type:uuid;index" json:"customer_id"`
	Customer    *Customer   `json:"customer,omitempty"`
	Items       []OrderItem `json:"items,omitempty"`

	TotalAmount     float64 `json:"total_amount"`
	DeliveryAddress Address `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	PaymentMethod   string  `json:"payment_method"`
	PaymentStatus   string  `json:"payment_status"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes"`

	DeliveredAt        *time.Time `json:"delivered_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `json:"cancellation_reason"`
}

type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
}

// ValidStatus reports whether s is one of the enumerated order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
