// Package auth provides the credential primitives for the server: signing
// and verifying access tokens, and hashing/verifying passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inkwell/internal/common"
)

// Claims carries the identity baked into an access token: the account id,
// its handle, and its role.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Handle string `json:"handle"`
	Role   string `json:"role"`
}

// GenerateToken signs an HS256 token for the given identity with the
// configured validity window.
func GenerateToken(userID, handle, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Handle: handle,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the token signature and returns the embedded claims.
// Expired tokens yield common.ErrTokenExpired; any other failure (malformed
// token, wrong signature) yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
