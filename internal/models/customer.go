package models

import "time"

// Membership tiers.
const (
	MembershipBronze = "bronze"
	MembershipSilver = "silver"
	MembershipGold   = "gold"
)

// Customer is the store profile of an authenticated identity. There is at most
// one customer per user.
type Customer struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     string     `json:"user" gorm:"type:varchar(64);uniqueIndex;not null"`
	Phone      string     `json:"phone" gorm:"type:varchar(32)"`
	BirthDate  *time.Time `json:"birth_date"`
	Membership string     `json:"membership" gorm:"type:varchar(16);not null;default:bronze"`

	Addresses []Address `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Orders    []Order   `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}

// Address belongs to exactly one customer.
type Address struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CustomerID uint   `json:"customer" gorm:"index;not null"`
	Street     string `json:"street" gorm:"type:varchar(255);not null"`
	City       string `json:"city" gorm:"type:varchar(255);not null"`
}

// IsValidMembership reports whether m is one of the known tiers.
func IsValidMembership(m string) bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold:
		return true
	}
	return false
}
