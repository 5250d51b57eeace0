package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

func TestProjectLimitOnFreePlan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")

	for i := 0; i < 3; i++ {
		_, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: fmt.Sprintf("p%d", i)})
		require.NoError(t, err)
	}

	_, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "one too many"})
	lerr, ok := IsLimitExceededError(err)
	require.True(t, ok)
	assert.Equal(t, ResourceProject, lerr.Resource)
	assert.EqualValues(t, 3, lerr.Current)
	assert.Equal(t, 3, lerr.Limit)
	assert.Equal(t, "Project limit reached. Current: 3, Limit: 3", lerr.Error())
}

func TestUserLimitCountsTheAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")

	for i := 0; i < 4; i++ {
		e.member(t, acme, fmt.Sprintf("u%d@acme.com", i))
	}

	_, err := e.users.Create(ctx, acme, CreateUserInput{Email: "sixth@acme.com", Password: testPassword, FullName: "Six"})
	lerr, ok := IsLimitExceededError(err)
	require.True(t, ok)
	assert.EqualValues(t, 5, lerr.Current)
	assert.Equal(t, 5, lerr.Limit)
}

func TestConcurrentProjectCreatesRespectLimit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: fmt.Sprintf("race-%d", i)})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
				return
			}
			if _, ok := IsLimitExceededError(err); ok {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, created)
	assert.Equal(t, 7, rejected)

	tenantID, _ := acme.TenantID()
	count, err := e.store.Projects().CountByTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestPlanChangeResetsCaps(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, reg := e.register(t, "acme")
	root := e.superAdmin(t)
	id := uuid.MustParse(reg.Tenant.ID)

	pro := models.PlanPro
	tenant, err := e.tenants.Update(ctx, root, id, UpdateTenantInput{SubscriptionPlan: &pro})
	require.NoError(t, err)
	assert.Equal(t, 25, tenant.MaxUsers)
	assert.Equal(t, 15, tenant.MaxProjects)

	enterprise := models.PlanEnterprise
	maxProjects := 7
	tenant, err = e.tenants.Update(ctx, root, id, UpdateTenantInput{SubscriptionPlan: &enterprise, MaxProjects: &maxProjects})
	require.NoError(t, err)
	assert.Equal(t, 100, tenant.MaxUsers)
	assert.Equal(t, 7, tenant.MaxProjects)
}

func TestTenantUpdateValidation(t *testing.T) {
	e := newEnv(t)
	_, reg := e.register(t, "acme")

	bad := models.SubscriptionPlan("platinum")
	_, err := e.tenants.Update(context.Background(), e.superAdmin(t), uuid.MustParse(reg.Tenant.ID), UpdateTenantInput{SubscriptionPlan: &bad})
	verr, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "subscriptionPlan", verr.Field)

	_, err = e.tenants.Update(context.Background(), e.superAdmin(t), uuid.New(), UpdateTenantInput{})
	_, ok = IsNotFoundError(err)
	assert.True(t, ok)
}

func TestTenantUpdateInvalidatesCache(t *testing.T) {
	e := newEnv(t)
	_, reg := e.register(t, "acme")
	cache := &fakeTenantCache{}
	svc := NewTenantService(e.store, cache, e.audit, quietLogger())

	name := "Acme Corp"
	_, err := svc.Update(context.Background(), e.superAdmin(t), uuid.MustParse(reg.Tenant.ID), UpdateTenantInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, cache.invalidated)
}

type fakeTenantCache struct {
	tenants     map[string]*models.Tenant
	invalidated []string
	gets        int
}

func (c *fakeTenantCache) Get(_ context.Context, subdomain string) (*models.Tenant, error) {
	c.gets++
	return c.tenants[subdomain], nil
}

func (c *fakeTenantCache) Set(_ context.Context, tenant *models.Tenant) error {
	if c.tenants == nil {
		c.tenants = map[string]*models.Tenant{}
	}
	c.tenants[tenant.Subdomain] = tenant
	return nil
}

func (c *fakeTenantCache) Invalidate(_ context.Context, subdomain string) error {
	c.invalidated = append(c.invalidated, subdomain)
	delete(c.tenants, subdomain)
	return nil
}

func TestLoginPopulatesTenantCache(t *testing.T) {
	e := newEnv(t)
	e.register(t, "acme")
	cache := &fakeTenantCache{}
	auth, err := NewAuthService(e.store, e.passwords, e.tokens, cache, e.audit, AuthConfig{
		SuperAdminEmail: testSuperAdminEmail, SystemSubdomain: "system", BlockSuspendedTenants: true,
	}, quietLogger())
	require.NoError(t, err)

	in := LoginInput{Email: "admin@acme.com", Password: testPassword, TenantSubdomain: "acme"}
	_, err = auth.Login(context.Background(), in)
	require.NoError(t, err)
	require.Contains(t, cache.tenants, "acme")

	_, err = auth.Login(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.gets)
}
