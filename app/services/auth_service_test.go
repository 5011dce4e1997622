package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/app/repositories"
	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
)

func authService(t *testing.T) (*AuthService, *[]string) {
	t.Helper()
	db := openDB(t, "seller", &models.Seller{}, &models.SellerUser{})

	hash, err := auth.HashPassword("password")
	require.NoError(t, err)
	seller := models.Seller{Name: "Demo", Email: "demo@example.com", Active: true}
	require.NoError(t, db.Create(&seller).Error)
	require.NoError(t, db.Create(&models.SellerUser{SellerID: seller.ID, Username: "demo", Password: hash}).Error)

	svc := NewAuthService(repositories.NewSellerRepository(db), auth.NewIssuer("svc-secret", time.Hour))
	var compared []string
	svc.checkPassword = func(hash, plain string) bool {
		compared = append(compared, hash)
		return auth.CheckPassword(hash, plain)
	}
	return svc, &compared
}

func TestLoginUnknownUserStillComparesHash(t *testing.T) {
	svc, compared := authService(t)

	_, err := svc.Login(context.Background(), "nobody", "password")
	var he *exception.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, *compared, 1)
	assert.Equal(t, unknownUserHash(), (*compared)[0])
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	svc, compared := authService(t)
	ctx := context.Background()

	_, unknown := svc.Login(ctx, "nobody", "password")
	_, wrong := svc.Login(ctx, "demo", "nope")
	require.Len(t, *compared, 2)

	var a, b *exception.HTTPError
	require.ErrorAs(t, unknown, &a)
	require.ErrorAs(t, wrong, &b)
	assert.Equal(t, a.Status, b.Status)
	assert.Equal(t, a.Message, b.Message)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := authService(t)

	res, err := svc.Login(context.Background(), "demo", "password")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, "demo", res.User.Username)
	assert.NotEmpty(t, res.Token)
}
