package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
)

// JWTGuard admits requests carrying a valid bearer token and stores its
// claims on the request context for auth.ClaimsFrom.
func JWTGuard(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				exception.Render(w, r, exception.Unauthorized(""))
				return
			}

			claims, err := issuer.Validate(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("rejected bearer token", "error", err)
				exception.Render(w, r, exception.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := auth.WithClaims(r.Context(), claims)
			ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user_id", claims.UserID, "seller_id", claims.SellerID))
			rememberCaller(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BasicAuth protects a handler with a single username/password pair. With an
// empty user the middleware is a pass-through.
func BasicAuth(realm, user, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if user == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()
			userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1
			if !ok || !userOK || !passOK {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`", charset="UTF-8"`)
				exception.Render(w, r, exception.Unauthorized(""))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
