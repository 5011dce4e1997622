package controllers

import (
	"github.com/shashiranjanraj/sellerhub/app/requests"
	"github.com/shashiranjanraj/sellerhub/app/services"
	"github.com/shashiranjanraj/sellerhub/pkg/ctx"
	"github.com/shashiranjanraj/sellerhub/pkg/orm"
)

// ProductController exposes the seller's catalogue. Every action is scoped
// to the seller in the caller's token.
type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Index handles GET /products?page=&per_page=.
func (c *ProductController) Index(x *ctx.Context) error {
	claims, err := x.MustClaims()
	if err != nil {
		return err
	}

	products, page, err := c.service.List(x.Context(), claims.SellerID,
		x.QueryInt("page", 1), x.QueryInt("per_page", orm.DefaultPerPage))
	if err != nil {
		return err
	}

	x.Paginated(products, page)
	return nil
}

// Store handles POST /products.
func (c *ProductController) Store(x *ctx.Context) error {
	claims, err := x.MustClaims()
	if err != nil {
		return err
	}

	var in requests.CreateProduct
	if err := x.BindJSON(&in); err != nil {
		return err
	}

	product, err := c.service.Create(x.Context(), claims.SellerID, in)
	if err != nil {
		return err
	}

	x.Created(product)
	return nil
}

// Show handles GET /products/{id}.
func (c *ProductController) Show(x *ctx.Context) error {
	claims, err := x.MustClaims()
	if err != nil {
		return err
	}
	id, err := x.ParamUint("id")
	if err != nil {
		return err
	}

	product, err := c.service.Get(x.Context(), claims.SellerID, id)
	if err != nil {
		return err
	}

	x.Success(product)
	return nil
}

// Update handles PUT /products/{id}.
func (c *ProductController) Update(x *ctx.Context) error {
	claims, err := x.MustClaims()
	if err != nil {
		return err
	}
	id, err := x.ParamUint("id")
	if err != nil {
		return err
	}

	var in requests.UpdateProduct
	if err := x.BindJSON(&in); err != nil {
		return err
	}

	product, err := c.service.Update(x.Context(), claims.SellerID, id, in)
	if err != nil {
		return err
	}

	x.Success(product)
	return nil
}

// Destroy handles DELETE /products/{id}.
func (c *ProductController) Destroy(x *ctx.Context) error {
	claims, err := x.MustClaims()
	if err != nil {
		return err
	}
	id, err := x.ParamUint("id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(x.Context(), claims.SellerID, id); err != nil {
		return err
	}

	x.NoContent()
	return nil
}
