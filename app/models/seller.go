package models

import "gorm.io/gorm"

// Seller is a merchant account. Lives in the seller database.
type Seller struct {
	gorm.Model
	Name   string `gorm:"size:255;not null"             json:"name"`
	Email  string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Active bool   `gorm:"not null;default:true"         json:"active"`
}

// SellerUser is a login belonging to one seller.
type SellerUser struct {
	gorm.Model
	SellerID uint    `gorm:"not null;index"                json:"seller_id"`
	Username string  `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string  `gorm:"size:255;not null"             json:"-"` // bcrypt hash, never serialised
	Seller   *Seller `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"seller,omitempty"`
}
