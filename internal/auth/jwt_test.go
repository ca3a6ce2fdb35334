package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateToken(42, ScopeCustomer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, scope, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, ScopeCustomer, scope)
}

func TestValidateTokenPreservesScope(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	for _, scope := range []string{ScopeCustomer, ScopeStoreAdmin, ScopeCourier} {
		token, err := GenerateToken(7, scope)
		require.NoError(t, err)

		_, got, err := ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, scope, got)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	_, _, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	token, err := GenerateToken(42, ScopeCustomer)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "a-different-secret")
	_, _, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	claims := jwt.MapClaims{
		"sub":   float64(42),
		"scope": ScopeCustomer,
		"exp":   time.Now().Add(-time.Hour).Unix(),
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, _, err = ValidateToken(expired)
	assert.Error(t, err)
}
