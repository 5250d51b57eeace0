package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

// Claims is the signed token payload
type Claims struct {
	UserID   uuid.UUID   `json:"userId"`
	TenantID *uuid.UUID  `json:"tenantId"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the claim into the verified caller identity
func (c *Claims) Identity() (models.Identity, error) {
	return models.IdentityFromClaim(c.UserID, c.TenantID, c.Role)
}

// TokenService issues and verifies HS256 identity tokens
type TokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenService(secret string, expiry time.Duration, issuer string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a token for identity
func (s *TokenService) Issue(identity models.Identity) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   identity.UserID(),
		TenantID: identity.TenantIDPtr(),
		Role:     identity.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   identity.UserID().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", &TokenInfrastructureError{Err: err}
	}
	return signed, nil
}

// Verify checks signature and expiry. It returns ErrTokenExpired or ErrTokenMalformed, wrapped with the cause.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if _, err := claims.Identity(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return claims, nil
}

// Authenticate verifies the token and returns the caller identity
func (s *TokenService) Authenticate(tokenString string) (models.Identity, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return models.Identity{}, err
	}
	return claims.Identity()
}
