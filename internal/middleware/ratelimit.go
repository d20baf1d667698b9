package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/examchan-dev/examchan/internal/middleware/ratelimiter"
)

func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.Admin { // disable for admin
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIdFromContext is the identity getter for per-user limits.
// Possible if user was authorized with previous middleware.
func GetUserIdFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", fmt.Errorf("can't get user id")
	}
	return "user_" + user.Id.Hex(), nil
}

// GetIP extracts the client IP from RemoteAddr. Proxy headers are not
// trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, nil
	}
	return ip, nil
}
