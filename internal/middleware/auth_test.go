package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/examchan-dev/examchan/internal/domain"
	"github.com/examchan-dev/examchan/internal/jwt"
)

func newAuthFixture(t *testing.T) (*Auth, jwt.JwtService) {
	t.Helper()
	j := jwt.New("testKey", time.Minute)
	return NewAuth(j), j
}

func echoUser(t *testing.T, captured **domain.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestNeedAuth(t *testing.T) {
	auth, j := newAuthFixture(t)
	user := domain.User{Id: primitive.NewObjectID()}
	token, err := j.NewToken(user)
	require.NoError(t, err)

	t.Run("Bearer header accepted", func(t *testing.T) {
		var got *domain.User
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		auth.NeedAuth()(echoUser(t, &got)).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got)
		assert.Equal(t, user.Id, got.Id)
	})

	t.Run("Access cookie accepted", func(t *testing.T) {
		var got *domain.User
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		rr := httptest.NewRecorder()

		auth.NeedAuth()(echoUser(t, &got)).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got)
	})

	t.Run("No token rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		var got *domain.User

		auth.NeedAuth()(echoUser(t, &got)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, got)
	})

	t.Run("Tampered token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rr := httptest.NewRecorder()
		var got *domain.User

		auth.NeedAuth()(echoUser(t, &got)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminOnly(t *testing.T) {
	auth, j := newAuthFixture(t)

	t.Run("Regular user forbidden", func(t *testing.T) {
		token, err := j.NewToken(domain.User{Id: primitive.NewObjectID()})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		var got *domain.User

		auth.AdminOnly()(echoUser(t, &got)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Admin passes", func(t *testing.T) {
		token, err := j.NewToken(domain.User{Id: primitive.NewObjectID(), Admin: true})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		var got *domain.User

		auth.AdminOnly()(echoUser(t, &got)).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got)
		assert.True(t, got.Admin)
	})
}
