package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/examchan-dev/examchan/internal/domain"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeUser(jwtStr string) (*domain.User, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

// NewToken signs the claims the identity collaborator issues. Kept here
// mostly for tests and tooling; production tokens come from the identity
// service with the same shared key.
func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid":   user.Id.Hex(),
		"admin": user.Admin,
		"exp":   time.Now().Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// DecodeUser validates the token and extracts the {userId, role} pair the
// core trusts.
func (j *Jwt) DecodeUser(jwtStr string) (*domain.User, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	uidHex, ok := claims["uid"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid uid claim")
	}
	uid, err := primitive.ObjectIDFromHex(uidHex)
	if err != nil {
		return nil, fmt.Errorf("invalid uid claim: %w", err)
	}

	admin, ok := claims["admin"].(bool)
	if !ok {
		return nil, fmt.Errorf("invalid admin claim")
	}

	return &domain.User{Id: uid, Admin: admin}, nil
}
