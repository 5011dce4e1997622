// Package providers binds the application's services into the container.
//
// Datasources are exposed as named tokens so services ask for the exact
// handle they need:
//
//	sellerRead := container.MustMake[*gorm.DB](providers.SellerRead)
//	shopWrite  := container.MustMake[*gorm.DB](providers.ShopWrite)
//
// Every token is a singleton; nothing connects until the first Make.
package providers

import (
	"context"

	"github.com/shashiranjanraj/sellerhub/app/controllers"
	"github.com/shashiranjanraj/sellerhub/app/repositories"
	"github.com/shashiranjanraj/sellerhub/app/services"
	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/cache"
	"github.com/shashiranjanraj/sellerhub/pkg/container"
	"github.com/shashiranjanraj/sellerhub/pkg/database"
	"gorm.io/gorm"
)

// Datasource tokens.
const (
	SellerRead  = "db." + database.SellerRead
	SellerWrite = "db." + database.SellerWrite
	ShopRead    = "db." + database.ShopRead
	ShopWrite   = "db." + database.ShopWrite
)

// Service tokens.
const (
	Manager           = "db.manager"
	Cache             = "cache"
	Issuer            = "auth.issuer"
	SellerRepository  = "repositories.seller"
	ProductRepository = "repositories.product"
	AuthService       = "services.auth"
	ProductService    = "services.product"
	AuthController    = "controllers.auth"
	ProductController = "controllers.product"
	HealthController  = "controllers.health"
)

// RegisterDataSources binds the manager and one token per datasource. The
// handle is opened by the manager the first time its token is resolved.
func RegisterDataSources(m *database.Manager) {
	container.Instance(Manager, m)
	for _, name := range database.All {
		name := name
		container.Singleton("db."+name, func() (any, error) {
			return m.Get(context.Background(), name)
		})
	}
}

// RegisterServices binds repositories, services and controllers. issuer and
// store are built by the caller so tests can pass their own.
func RegisterServices(issuer *auth.Issuer, store cache.Store) {
	container.Instance(Issuer, issuer)
	container.Instance(Cache, store)

	container.Singleton(SellerRepository, func() (any, error) {
		read, err := container.MakeAs[*gorm.DB](SellerRead)
		if err != nil {
			return nil, err
		}
		return repositories.NewSellerRepository(read), nil
	})

	container.Singleton(ProductRepository, func() (any, error) {
		read, err := container.MakeAs[*gorm.DB](ShopRead)
		if err != nil {
			return nil, err
		}
		write, err := container.MakeAs[*gorm.DB](ShopWrite)
		if err != nil {
			return nil, err
		}
		return repositories.NewProductRepository(read, write), nil
	})

	container.Singleton(AuthService, func() (any, error) {
		sellers, err := container.MakeAs[*repositories.SellerRepository](SellerRepository)
		if err != nil {
			return nil, err
		}
		return services.NewAuthService(sellers, issuer), nil
	})

	container.Singleton(ProductService, func() (any, error) {
		sellers, err := container.MakeAs[*repositories.SellerRepository](SellerRepository)
		if err != nil {
			return nil, err
		}
		products, err := container.MakeAs[*repositories.ProductRepository](ProductRepository)
		if err != nil {
			return nil, err
		}
		return services.NewProductService(sellers, products, store), nil
	})

	container.Singleton(AuthController, func() (any, error) {
		svc, err := container.MakeAs[*services.AuthService](AuthService)
		if err != nil {
			return nil, err
		}
		return controllers.NewAuthController(svc), nil
	})

	container.Singleton(ProductController, func() (any, error) {
		svc, err := container.MakeAs[*services.ProductService](ProductService)
		if err != nil {
			return nil, err
		}
		return controllers.NewProductController(svc), nil
	})

	container.Singleton(HealthController, func() (any, error) {
		m, err := container.MakeAs[*database.Manager](Manager)
		if err != nil {
			return nil, err
		}
		return controllers.NewHealthController(m), nil
	})
}
