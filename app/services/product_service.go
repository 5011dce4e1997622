package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/app/repositories"
	"github.com/shashiranjanraj/sellerhub/app/requests"
	"github.com/shashiranjanraj/sellerhub/pkg/cache"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"github.com/shashiranjanraj/sellerhub/pkg/metrics"
	"github.com/shashiranjanraj/sellerhub/pkg/orm"
	"gorm.io/gorm"
)

const productCacheTTL = 5 * time.Minute

// ProductService manages a seller's catalogue. The seller lookup goes to the
// seller database; products are read from the shop read handle and written
// through the shop write handle.
type ProductService struct {
	sellers  *repositories.SellerRepository
	products *repositories.ProductRepository
	cache    cache.Store
}

func NewProductService(sellers *repositories.SellerRepository, products *repositories.ProductRepository, store cache.Store) *ProductService {
	if store == nil {
		store = cache.Null{}
	}
	return &ProductService{sellers: sellers, products: products, cache: store}
}

func productKey(sellerID, id uint) string {
	return fmt.Sprintf("product:%d:%d", sellerID, id)
}

// Create stores a product with its items for sellerID. A seller that does
// not exist is a client error, not a missing resource.
func (s *ProductService) Create(ctx context.Context, sellerID uint, in requests.CreateProduct) (models.Product, error) {
	if in.SellerID != 0 && in.SellerID != sellerID {
		return models.Product{}, exception.Forbidden("Cannot create products for another seller").WithCause(ErrSellerMismatch)
	}

	if _, err := s.sellers.FindByID(ctx, sellerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, exception.BadRequest("Seller not found").WithCause(ErrSellerNotFound)
		}
		return models.Product{}, fmt.Errorf("services: load seller %d: %w", sellerID, err)
	}

	p := models.Product{
		SellerID: sellerID,
		Name:     in.Name,
		Items:    toItems(in.Items),
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("services: create product: %w", err)
	}

	logger.WithCtx(ctx).Info("product created", "product_id", p.ID, "seller_id", sellerID, "items", len(p.Items))
	return p, nil
}

// List returns one page of the seller's live products.
func (s *ProductService) List(ctx context.Context, sellerID uint, page, perPage int) ([]models.Product, orm.Pagination, error) {
	return s.products.PaginateForSeller(ctx, sellerID, page, perPage)
}

// Get returns one product, served from cache when possible.
func (s *ProductService) Get(ctx context.Context, sellerID, id uint) (models.Product, error) {
	p, hit, err := s.products.CachedForSeller(ctx, s.cache, productKey(sellerID, id), productCacheTTL, sellerID, id)
	if hit {
		metrics.CacheHits.WithLabelValues("product").Inc()
		return p, nil
	}
	metrics.CacheMisses.WithLabelValues("product").Inc()

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, exception.NotFound("Product not found").WithCause(err)
	}
	return p, err
}

// Update renames the product and, when items are sent, replaces them.
func (s *ProductService) Update(ctx context.Context, sellerID, id uint, in requests.UpdateProduct) (models.Product, error) {
	var items []models.ProductItem
	if in.Items != nil {
		items = toItems(in.Items)
	}

	p, err := s.products.Update(ctx, sellerID, id, in.Name, items)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, exception.NotFound("Product not found").WithCause(err)
	}
	if err != nil {
		return p, fmt.Errorf("services: update product %d: %w", id, err)
	}

	s.forget(ctx, sellerID, id)
	return p, nil
}

// Delete flags the product as deleted.
func (s *ProductService) Delete(ctx context.Context, sellerID, id uint) error {
	err := s.products.SoftDelete(ctx, sellerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return exception.NotFound("Product not found").WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("services: delete product %d: %w", id, err)
	}

	s.forget(ctx, sellerID, id)
	logger.WithCtx(ctx).Info("product deleted", "product_id", id, "seller_id", sellerID)
	return nil
}

func (s *ProductService) forget(ctx context.Context, sellerID, id uint) {
	if err := s.cache.Del(ctx, productKey(sellerID, id)); err != nil {
		logger.WithCtx(ctx).Warn("product cache evict failed", "product_id", id, "error", err)
	}
}

func toItems(in []requests.ProductItem) []models.ProductItem {
	items := make([]models.ProductItem, len(in))
	for i, it := range in {
		items[i] = models.ProductItem{SKU: it.SKU, Price: it.Price, Stock: it.Stock}
	}
	return items
}
