package auth

import (
	"context"
	"fmt"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates access tokens issued by the account service.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// VerifyToken verifies an HS256 access token and returns its user id.
func (v *TokenVerifier) VerifyToken(_ context.Context, tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID < 1 {
		return 0, domain.ErrInvalidToken
	}

	return int(userID), nil
}
