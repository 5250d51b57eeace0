package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "superadmin@system.com", cfg.Auth.SuperAdminEmail)
	assert.Equal(t, "system", cfg.Auth.SystemSubdomain)
	assert.True(t, cfg.Auth.BlockSuspendedTenants)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 90, cfg.Audit.RetentionDays)
	assert.Equal(t, 5*time.Second, cfg.Database.AcquireTimeout)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE", "memory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "7")
	t.Setenv("AUTH_BLOCK_SUSPENDED_TENANTS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Auth.BlockSuspendedTenants)
}

func TestReleaseModeRejectsDefaultSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestReleaseModeAcceptsCustomSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsRelease())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
