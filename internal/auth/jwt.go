package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token scopes. Each principal type gets its own scope so a customer
// token can never be used against admin or courier routes.
const (
	ScopeCustomer   = "customer"
	ScopeStoreAdmin = "store-admin"
	ScopeCourier    = "delivery"
)

// tokenTTL matches the original 24h session length.
const tokenTTL = 24 * time.Hour

// secretKey reads JWT_SECRET at call time (after godotenv has run in
// main), with a fallback so local development works out of the box.
func secretKey() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("insecure-dev-secret-change-me")
}

// GenerateToken creates a signed JWT for a principal in the given scope.
func GenerateToken(subjectID int64, scope string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subjectID,
		"scope": scope,
		"exp":   time.Now().Add(tokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a JWT token string. It returns
// the principal id and scope if the token is valid.
func ValidateToken(tokenString string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	// JSON numbers decode as float64.
	subject, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", errors.New("invalid subject claim")
	}
	scope, ok := claims["scope"].(string)
	if !ok {
		return 0, "", errors.New("invalid scope claim")
	}

	return int64(subject), scope, nil
}
