package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/app/repositories"
	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"gorm.io/gorm"
)

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      models.SellerUser `json:"user"`
}

// unknownUserHash is compared against when the username does not exist, so
// both failure paths pay for one bcrypt comparison.
var unknownUserHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("sellerhub-unknown-user")
	return h
})

type AuthService struct {
	sellers       *repositories.SellerRepository
	issuer        *auth.Issuer
	checkPassword func(hash, plain string) bool
}

func NewAuthService(sellers *repositories.SellerRepository, issuer *auth.Issuer) *AuthService {
	return &AuthService{sellers: sellers, issuer: issuer, checkPassword: auth.CheckPassword}
}

// Login checks a username/password pair against the seller database and
// issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.sellers.FindUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.checkPassword(unknownUserHash(), password)
		logger.WithCtx(ctx).Info("login rejected", "username", username)
		return nil, exception.Unauthorized("Invalid credentials").WithCause(ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !s.checkPassword(user.Password, password) {
		logger.WithCtx(ctx).Info("login rejected", "username", username)
		return nil, exception.Unauthorized("Invalid credentials").WithCause(ErrInvalidCredentials)
	}
	if user.Seller != nil && !user.Seller.Active {
		return nil, exception.Forbidden("Seller account is inactive").WithCause(ErrSellerInactive)
	}

	token, expires, err := s.issuer.Issue(user.ID, user.SellerID, user.Username)
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("login", "user_id", user.ID, "seller_id", user.SellerID)
	return &LoginResult{Token: token, TokenType: "Bearer", ExpiresAt: expires, User: user}, nil
}

// Me returns the seller user behind the token claims.
func (s *AuthService) Me(ctx context.Context, claims *auth.Claims) (models.SellerUser, error) {
	user, err := s.sellers.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, exception.Unauthorized("User no longer exists").WithCause(err)
	}
	return user, err
}
