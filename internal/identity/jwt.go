package identity

import (
	"context"
	"fmt"

	"carrental/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims mirrors the provider's access-token payload. The role claim
// lives in user_metadata, as issued by the provider's admin API.
type tokenClaims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens locally with the provider's signing
// secret, avoiding a network round-trip per request.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*models.Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &models.Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.UserMetadata.FullName,
		Role:  claims.UserMetadata.Role,
	}, nil
}
