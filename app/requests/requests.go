// Package requests holds the request bodies the API accepts, with their
// validation rules.
package requests

import "github.com/shopspring/decimal"

type Login struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

type ProductItem struct {
	SKU   string          `json:"sku"   validate:"required,alpha_dash,max=64"`
	Price decimal.Decimal `json:"price" validate:"required,gt=0"`
	Stock int             `json:"stock" validate:"gte=0"`
}

type CreateProduct struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	// SellerID is optional; when sent it must match the caller's seller.
	SellerID uint          `json:"seller_id,omitempty"`
	Items    []ProductItem `json:"items" validate:"required,min=1,max=100,unique=SKU,dive"`
}

// UpdateProduct replaces the name and, when Items is present, the full item
// list.
type UpdateProduct struct {
	Name  string        `json:"name"  validate:"required,min=2,max=255"`
	Items []ProductItem `json:"items" validate:"omitempty,max=100,unique=SKU,dive"`
}
