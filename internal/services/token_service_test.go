package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour, "taskhub")
	userID, tenantID := uuid.New(), uuid.New()

	member, err := models.MemberIdentity(userID, tenantID, models.RoleTenantAdmin)
	require.NoError(t, err)

	for _, identity := range []models.Identity{member, models.SuperAdminIdentity(userID)} {
		token, err := s.Issue(identity)
		require.NoError(t, err)

		got, err := s.Authenticate(token)
		require.NoError(t, err)
		assert.Equal(t, identity, got)
	}
}

func TestTokenSuperAdminClaimHasNullTenant(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour, "taskhub")
	token, err := s.Issue(models.SuperAdminIdentity(uuid.New()))
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)
}

func TestTokenExpired(t *testing.T) {
	s := NewTokenService(testSecret, time.Minute, "taskhub")
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.Issue(models.SuperAdminIdentity(uuid.New()))
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.True(t, errors.Is(err, ErrTokenExpired))
	assert.True(t, IsUnauthenticated(err))
}

func TestTokenWrongSecretIsMalformed(t *testing.T) {
	issuer := NewTokenService("one", time.Hour, "taskhub")
	verifier := NewTokenService("two", time.Hour, "taskhub")

	token, err := issuer.Issue(models.SuperAdminIdentity(uuid.New()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.True(t, errors.Is(err, ErrTokenMalformed))
}

func TestTokenGarbageIsMalformed(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour, "taskhub")
	_, err := s.Verify("not.a.token")
	assert.True(t, errors.Is(err, ErrTokenMalformed))
}

func TestTokenRejectsNoneAlgorithm(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour, "taskhub")
	claims := &Claims{
		UserID: uuid.New(),
		Role:   models.RoleSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.True(t, errors.Is(err, ErrTokenMalformed))
}

func TestTokenInconsistentClaimIsMalformed(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour, "taskhub")
	tenantID := uuid.New()
	claims := &Claims{
		UserID:   uuid.New(),
		TenantID: &tenantID,
		Role:     models.RoleSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.True(t, errors.Is(err, ErrTokenMalformed))
}
