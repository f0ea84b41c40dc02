package models

// Collection is a named grouping of products.
type Collection struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Title        string `json:"title" gorm:"type:varchar(255);not null"`
	ImageURL     string `json:"image_url" gorm:"type:varchar(512)"`
	ProductCount int64  `json:"product_count" gorm:"-:migration;->"`
}
