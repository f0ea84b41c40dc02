package services_test

import (
	"testing"
	"time"

	"storefront/internal/policy"
	"storefront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

func TestAuthService_IssueAndValidate(t *testing.T) {
	authService := services.NewAuthService(testJWTSecret)

	token, err := authService.IssueToken(policy.Identity{UserID: "user-123", Username: "testuser", IsStaff: true})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	id, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.UserID)
	assert.Equal(t, "testuser", id.Username)
	assert.True(t, id.IsStaff)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(testJWTSecret)

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	t.Run("valid token without staff claim", func(t *testing.T) {
		token := sign(jwt.MapClaims{
			"user_id":  "user-123",
			"username": "testuser",
			"exp":      time.Now().Add(time.Hour).Unix(),
		}, testJWTSecret)

		id, err := authService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", id.UserID)
		assert.False(t, id.IsStaff)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := authService.ValidateToken("invalid.token.string")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid token")
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(time.Hour).Unix()}, "other")
		_, err := authService.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token := sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(-time.Hour).Unix()}, testJWTSecret)
		_, err := authService.ValidateToken(token)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid token")
	})

	t.Run("numeric user_id", func(t *testing.T) {
		token := sign(jwt.MapClaims{"user_id": 42, "is_staff": true, "exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret)
		id, err := authService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "42", id.UserID)
		assert.True(t, id.IsStaff)
	})

	t.Run("missing user_id", func(t *testing.T) {
		token := sign(jwt.MapClaims{"username": "testuser", "exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret)
		_, err := authService.ValidateToken(token)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "user_id")
	})
}
