package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is an anonymous basket addressed by an opaque UUID.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
}

// CartItem is one (product, quantity) line of a cart. A cart holds at most one
// line per product.
type CartItem struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CartID    string `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product"`
	ProductID uint   `json:"-" gorm:"not null;uniqueIndex:idx_cart_product"`
	Quantity  int    `json:"quantity" gorm:"not null"`

	Product Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TotalPrice is the line total at the product's current price.
func (i CartItem) TotalPrice() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums every line at current prices. Items must have Product loaded.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}
