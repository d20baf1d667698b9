package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/examchan-dev/examchan/internal/domain"
	"github.com/examchan-dev/examchan/internal/middleware/ratelimiter"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(user *domain.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), UserClaimsKey, user))
	}
	return req
}

func TestRateLimitByUser(t *testing.T) {
	rl := ratelimiter.New(0.001, 2, time.Hour)
	handler := RateLimit(rl, GetUserIdFromContext)(okHandler())
	user := &domain.User{Id: primitive.NewObjectID()}

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestAs(user))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestAs(user))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// a different user is unaffected
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, requestAs(&domain.User{Id: primitive.NewObjectID()}))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimitAdminBypass(t *testing.T) {
	rl := ratelimiter.New(0.001, 1, time.Hour)
	handler := RateLimit(rl, GetUserIdFromContext)(okHandler())
	admin := &domain.User{Id: primitive.NewObjectID(), Admin: true}

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestAs(admin))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestRateLimitByIP(t *testing.T) {
	rl := ratelimiter.New(0.001, 1, time.Hour)
	handler := RateLimit(rl, GetIP)(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestAs(nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, requestAs(nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "httptest requests share an address")
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"

	ip, err := GetIP(req)

	assert.NoError(t, err)
	assert.Equal(t, "10.1.2.3", ip)
}
