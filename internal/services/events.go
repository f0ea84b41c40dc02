package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// MessagePublisher sends a message to a broker exchange.
type MessagePublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderPlacedEvent is published once an order has been committed.
type OrderPlacedEvent struct {
	OrderID    uint            `json:"order_id"`
	CustomerID uint            `json:"customer_id"`
	CartID     string          `json:"cart_id"`
	Items      int             `json:"items"`
	Total      decimal.Decimal `json:"total"`
	PlacedAt   time.Time       `json:"placed_at"`
}
