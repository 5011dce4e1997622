package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/plugin/soft_delete"
)

// Product belongs to a seller and lives in the shop database. SellerID refers
// to the seller database, so there is no foreign key behind it.
type Product struct {
	ID        uint                  `gorm:"primaryKey"                     json:"id"`
	SellerID  uint                  `gorm:"not null;index"                 json:"seller_id"`
	Name      string                `gorm:"size:255;not null;index"        json:"name"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;not null;index" json:"-"`
	Items     []ProductItem         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// ProductItem is one sellable variant of a product.
type ProductItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	ProductID uint            `gorm:"not null;index"              json:"product_id"`
	SKU       string          `gorm:"size:64;not null;index"      json:"sku"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock     int             `gorm:"not null;default:0"          json:"stock"`
}
