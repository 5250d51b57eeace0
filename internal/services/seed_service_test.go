package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

func TestSeedIsIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	seed := NewSeedService(store, NewPasswordService(4), quietLogger())
	ctx := context.Background()

	tenant, created, err := seed.EnsureSystemTenant(ctx, "system")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.PlanEnterprise, tenant.SubscriptionPlan)

	again, created, err := seed.EnsureSystemTenant(ctx, "system")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, tenant.ID, again.ID)

	user, created, err := seed.EnsureSuperAdmin(ctx, "Root@System.com", testPassword, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, user.TenantID)
	assert.Equal(t, "root@system.com", user.Email)
	assert.Equal(t, "Super Admin", user.FullName)

	_, created, err = seed.EnsureSuperAdmin(ctx, "root@system.com", testPassword, "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedRejectsWeakPassword(t *testing.T) {
	seed := NewSeedService(repository.NewMemoryStore(), NewPasswordService(4), quietLogger())
	_, _, err := seed.EnsureSuperAdmin(context.Background(), "root@system.com", "short", "")
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}
