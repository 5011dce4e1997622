package migrations

import (
	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register(Seller, "20240101000000_create_sellers_table", &CreateSellersTable{})
	migration.Register(Seller, "20240101000001_create_seller_users_table", &CreateSellerUsersTable{})
}

type CreateSellersTable struct{}

func (m *CreateSellersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Seller{})
}

func (m *CreateSellersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("sellers")
}

type CreateSellerUsersTable struct{}

func (m *CreateSellerUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.SellerUser{})
}

func (m *CreateSellerUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("seller_users")
}
