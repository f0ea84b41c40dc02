package services

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"storefront/internal/policy"

	"github.com/dgrijalva/jwt-go"
)

// AuthService validates bearer tokens issued by the identity provider.
type AuthService struct {
	jwtSecret     []byte
	tokenDuration time.Duration // lifetime of tokens minted by IssueToken
}

// NewAuthService creates a new AuthService.
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour,
	}
}

// IssueToken signs a token for id with the shared secret. Production tokens
// come from the identity provider; this is used by tooling and tests.
func (s *AuthService) IssueToken(id policy.Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  id.UserID,
		"username": id.Username,
		"is_staff": id.IsStaff,
		"exp":      time.Now().Add(s.tokenDuration).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the caller identity.
func (s *AuthService) ValidateToken(tokenString string) (*policy.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		slog.Debug("token validation error", "error", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	var userID string
	switch v := claims["user_id"].(type) {
	case string:
		userID = v
	case float64:
		// numeric primary keys from the identity provider
		userID = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if userID == "" {
		return nil, fmt.Errorf("invalid token: missing user_id claim")
	}
	username, _ := claims["username"].(string)
	isStaff, _ := claims["is_staff"].(bool)

	return &policy.Identity{UserID: userID, Username: username, IsStaff: isStaff}, nil
}
