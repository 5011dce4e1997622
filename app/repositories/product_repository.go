package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/pkg/cache"
	"github.com/shashiranjanraj/sellerhub/pkg/orm"
	"gorm.io/gorm"
)

// ProductRepository reads from the shop read handle and writes through the
// shop write handle.
type ProductRepository struct {
	read  *gorm.DB
	write *gorm.DB
}

func NewProductRepository(read, write *gorm.DB) *ProductRepository {
	return &ProductRepository{read: read, write: write}
}

// Create inserts the product and its items in one transaction.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
}

func (r *ProductRepository) forSeller(ctx context.Context, sellerID, id uint) *orm.Query {
	return orm.On(r.read).WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ? AND seller_id = ?", id, sellerID)
}

// CachedForSeller loads one live product owned by sellerID, items included,
// read through store under key. hit reports whether the row came from the
// cache.
func (r *ProductRepository) CachedForSeller(ctx context.Context, store cache.Store, key string, ttl time.Duration, sellerID, id uint) (p models.Product, hit bool, err error) {
	hit, err = r.forSeller(ctx, sellerID, id).Cache(ctx, store, key, ttl, &p)
	return p, hit, err
}

// PaginateForSeller lists live products owned by sellerID, newest first.
func (r *ProductRepository) PaginateForSeller(ctx context.Context, sellerID uint, page, perPage int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	p, err := orm.On(r.read).WithContext(ctx).
		Model(&models.Product{}).
		Where("seller_id = ?", sellerID).
		Order("id desc").
		Paginate(&products, page, perPage)
	if err != nil || len(products) == 0 {
		return products, p, err
	}
	return products, p, r.attachItems(ctx, products)
}

func (r *ProductRepository) attachItems(ctx context.Context, products []models.Product) error {
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	var items []models.ProductItem
	if err := orm.On(r.read).WithContext(ctx).Where("product_id IN ?", ids).Order("id").Get(&items); err != nil {
		return err
	}

	byProduct := make(map[uint][]models.ProductItem, len(products))
	for _, it := range items {
		byProduct[it.ProductID] = append(byProduct[it.ProductID], it)
	}
	for i := range products {
		products[i].Items = byProduct[products[i].ID]
		if products[i].Items == nil {
			products[i].Items = []models.ProductItem{}
		}
	}
	return nil
}

// Update saves the product name and, when items is non-nil, replaces the
// item list. Runs on the write handle so it sees its own writes.
func (r *ProductRepository) Update(ctx context.Context, sellerID, id uint, name string, items []models.ProductItem) (models.Product, error) {
	var p models.Product
	err := r.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND seller_id = ?", id, sellerID).First(&p).Error; err != nil {
			return err
		}
		if err := tx.Model(&p).Update("name", name).Error; err != nil {
			return err
		}
		if items != nil {
			if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProductItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].ID = 0
				items[i].ProductID = p.ID
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
		}
		return tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).First(&p, p.ID).Error
	})
	return p, err
}

// SoftDelete flags a product as deleted. Items stay so the row can be
// restored; the flag hides both.
func (r *ProductRepository) SoftDelete(ctx context.Context, sellerID, id uint) error {
	res := r.write.WithContext(ctx).Where("id = ? AND seller_id = ?", id, sellerID).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
