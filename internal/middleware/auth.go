package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/examchan-dev/examchan/internal/domain"
	"github.com/examchan-dev/examchan/internal/jwt"
)

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt.JwtService
}

func NewAuth(jwtService jwt.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires admin authentication
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}
			if adminOnly && !user.Admin {
				http.Error(w, "Admin rights needed", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractUser pulls the token from the access cookie (browser clients) or
// the Authorization header (API clients) and decodes it.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	return a.jwtService.DecodeUser(tokenString)
}

var errNoToken = errors.New("no token")

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
