package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentComplete = "complete"
	PaymentFailed   = "failed"
)

// Order is a placed order. Its items carry the unit price captured when the
// order was created.
type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	PlacedAt      time.Time   `json:"placed_at" gorm:"autoCreateTime"`
	PaymentStatus string      `json:"payment_status" gorm:"type:varchar(16);not null;default:pending"`
	CustomerID    uint        `json:"customer" gorm:"index;not null"`
	Items         []OrderItem `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order" gorm:"index;not null"`
	ProductID uint            `json:"product" gorm:"index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"` // Price at the time of order

	Product Product `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}

// IsValidPaymentStatus reports whether s is a known payment status.
func IsValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentComplete, PaymentFailed:
		return true
	}
	return false
}
