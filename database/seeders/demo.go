package seeders

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DemoSellerEmail identifies the seeded seller; seeding twice is a no-op.
const DemoSellerEmail = "demo@sellerhub.local"

func init() {
	Register("seller", "demo_seller", SeedDemoSeller)
	Register("shop", "demo_products", SeedDemoProducts)
}

// SeedDemoSeller creates one active seller with a "demo" login whose password
// is SEED_PASSWORD (default "password").
func SeedDemoSeller(db *gorm.DB, _ Handles) error {
	var existing models.Seller
	err := db.Where("email = ?", DemoSellerEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("SEED_PASSWORD", "password"))
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		seller := models.Seller{Name: "Demo Seller", Email: DemoSellerEmail, Active: true}
		if err := tx.Create(&seller).Error; err != nil {
			return err
		}
		return tx.Create(&models.SellerUser{
			SellerID: seller.ID,
			Username: "demo",
			Password: hash,
		}).Error
	})
}

// SeedDemoProducts gives the demo seller a product when it has none. The
// seller is looked up by email in the seller database, so its ID is whatever
// SeedDemoSeller got.
func SeedDemoProducts(db *gorm.DB, other Handles) error {
	sellerDB, err := other("seller")
	if err != nil {
		return err
	}

	var seller models.Seller
	err = sellerDB.Where("email = ?", DemoSellerEmail).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("demo seller %s not found, seed the seller database first", DemoSellerEmail)
	}
	if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Product{}).Where("seller_id = ?", seller.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Create(&models.Product{
		SellerID: seller.ID,
		Name:     "Sample T-Shirt",
		Items: []models.ProductItem{
			{SKU: "TSHIRT-S", Price: decimal.RequireFromString("19.99"), Stock: 10},
			{SKU: "TSHIRT-M", Price: decimal.RequireFromString("19.99"), Stock: 25},
		},
	}).Error
}
