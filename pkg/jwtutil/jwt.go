package jwtutil

import (
	"errors"
	"time"

	"pizzeria-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signingKey []byte
	expiration time.Duration
)

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	Email string `json:"email"`
	// UserID is the identity provider's uid, not the storage tenant key.
	// The tenant key is resolved per request from the stored profile.
	UserID        string `json:"user_id"`
	Role          string `json:"role,omitempty"`
	SelectedSpace string `json:"selected_space,omitempty"`
	jwt.RegisteredClaims
}

// Initialize configures the signing key and token lifetime from the app config
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expiration = cfg.ExpirationTime
}

// GenerateToken creates a signed JWT for the given user
func GenerateToken(userID, email, role, selectedSpace string) (string, error) {
	if len(signingKey) == 0 {
		return "", errors.New("jwtutil is not initialized")
	}

	now := time.Now()
	claims := UserClaims{
		Email:         email,
		UserID:        userID,
		Role:          role,
		SelectedSpace: selectedSpace,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
