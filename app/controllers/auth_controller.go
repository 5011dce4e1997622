package controllers

import (
	"github.com/shashiranjanraj/sellerhub/app/requests"
	"github.com/shashiranjanraj/sellerhub/app/services"
	"github.com/shashiranjanraj/sellerhub/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login handles POST /auth/login.
func (c *AuthController) Login(x *ctx.Context) error {
	var in requests.Login
	if err := x.BindJSON(&in); err != nil {
		return err
	}

	result, err := c.service.Login(x.Context(), in.Username, in.Password)
	if err != nil {
		return err
	}

	x.Success(result)
	return nil
}

// Me handles GET /auth/me.
func (c *AuthController) Me(x *ctx.Context) error {
	claims, err := x.MustClaims()
	if err != nil {
		return err
	}

	user, err := c.service.Me(x.Context(), claims)
	if err != nil {
		return err
	}

	x.Success(user)
	return nil
}
