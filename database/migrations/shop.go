package migrations

import (
	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register(Shop, "20240101000100_create_products_table", &CreateProductsTable{})
	migration.Register(Shop, "20240101000101_create_product_items_table", &CreateProductItemsTable{})
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// products and product_items live in the same database, so the foreign key
// is enforced there. seller_id is not: sellers are in another database.
type CreateProductItemsTable struct{}

func (m *CreateProductItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductItem{})
}

func (m *CreateProductItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_items")
}
