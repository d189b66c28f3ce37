package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the validated contents of an access token. TenantID is nil
// for platform operators that belong to no tenant.
type Claims struct {
	UserID   uuid.UUID
	Email    string
	Role     model.Role
	TenantID *uuid.UUID
}

// IsSuperAdmin reports whether the token carries the platform operator role.
func (c *Claims) IsSuperAdmin() bool {
	return c.Role == model.RoleSuperAdmin
}

type JWTService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), expiry: expiry}
}

func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

// GenerateToken issues a signed access token for the user.
func (s *JWTService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.expiry).Unix(),
	}
	if user.TenantID != nil {
		claims["tenant_id"] = user.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token and extracts its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   model.Role(role),
	}

	if raw, ok := mapClaims["tenant_id"].(string); ok {
		tid, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrInvalidToken
		}
		claims.TenantID = &tid
	}

	return claims, nil
}
