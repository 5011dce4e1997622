package repositories

import (
	"context"

	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/pkg/orm"
	"gorm.io/gorm"
)

// SellerRepository reads sellers and their users. It only ever needs the
// seller read handle.
type SellerRepository struct {
	read *gorm.DB
}

func NewSellerRepository(read *gorm.DB) *SellerRepository {
	return &SellerRepository{read: read}
}

// FindByID looks up a seller by primary key.
func (r *SellerRepository) FindByID(ctx context.Context, id uint) (models.Seller, error) {
	var seller models.Seller
	err := orm.On(r.read).WithContext(ctx).Where("id = ?", id).First(&seller)
	return seller, err
}

// FindUserByUsername looks up a login with its seller loaded.
func (r *SellerRepository) FindUserByUsername(ctx context.Context, username string) (models.SellerUser, error) {
	var user models.SellerUser
	err := orm.On(r.read).WithContext(ctx).Preload("Seller").Where("username = ?", username).First(&user)
	return user, err
}

// FindUserByID looks up a login by primary key with its seller loaded.
func (r *SellerRepository) FindUserByID(ctx context.Context, id uint) (models.SellerUser, error) {
	var user models.SellerUser
	err := orm.On(r.read).WithContext(ctx).Preload("Seller").Where("id = ?", id).First(&user)
	return user, err
}
