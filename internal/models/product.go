package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Title        string          `json:"title" gorm:"type:varchar(255);not null"`
	Description  string          `json:"description" gorm:"type:text"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Inventory    int             `json:"inventory" gorm:"not null;default:0"`
	Manufacturer string          `json:"manufacturer" gorm:"type:varchar(255)"`
	CollectionID *uint           `json:"collection_id" gorm:"index"`
	LastUpdate   time.Time       `json:"last_update" gorm:"autoUpdateTime"`

	Collection *Collection     `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Images     []ProductImage  `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	Reviews    []ProductReview `json:"reviews" gorm:"constraint:OnDelete:CASCADE"`
}

// ProductImage is a stored image attached to a product.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"index;not null"`
	Image     string `json:"image" gorm:"type:varchar(512);not null"` // storage path
	URL       string `json:"url" gorm:"type:varchar(1024)"`
}

// ProductReview is a free-form review left on a product.
type ProductReview struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ProductID    uint      `json:"product_id" gorm:"index;not null"`
	CustomerName string    `json:"customer_name" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	DateCreated  time.Time `json:"date_created" gorm:"autoCreateTime"`
}
