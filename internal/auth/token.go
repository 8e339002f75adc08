package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lostlink/backend/internal/models"
)

// Identity is the verified caller extracted from a session token.
type Identity struct {
	UserID   string
	UserName string
	Role     string
}

// CanModify reports whether the identity may mutate an item owned by
// ownerUID: the owner themselves, or any admin.
func (i Identity) CanModify(ownerUID string) bool {
	return i.UserID == ownerUID || i.Role == models.RoleAdmin
}

// Claims carries the user identity inside a signed session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// TokenGenerator issues and verifies HS256 session tokens. Verification is
// stateless; there is no server-side session record and no refresh flow.
type TokenGenerator struct {
	secret []byte
	expiry time.Duration
}

// NewTokenGenerator creates a token generator. expiry bounds the lifetime of
// every issued token (one hour in the default configuration).
func NewTokenGenerator(secret string, expiry time.Duration) *TokenGenerator {
	return &TokenGenerator{secret: []byte(secret), expiry: expiry}
}

// Generate signs a token embedding the user's id, name, and role.
func (tg *TokenGenerator) Generate(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tg.expiry)),
		},
		UserID:   user.ID,
		UserName: user.UserName,
		Role:     user.Role,
	})

	signed, err := token.SignedString(tg.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the identity it asserts.
func (tg *TokenGenerator) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tg.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("token is invalid")
	}

	return Identity{
		UserID:   claims.UserID,
		UserName: claims.UserName,
		Role:     claims.Role,
	}, nil
}
