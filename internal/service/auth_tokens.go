package service

import (
	"fmt"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "rentease-api"

// JWTClaims represents the custom claims in access tokens.
type JWTClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ValidateToken checks signature, algorithm and expiry.
func (l *LocalIdentity) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return l.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, &domain.ErrUnauthorized{Message: "Invalid or expired token"}
	}
	return claims, nil
}

func (l *LocalIdentity) signToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.tokenTTL)),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(l.jwtSecret)
}
