package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

func TestCrossTenantReadsAreNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	globex, _ := e.register(t, "globex")

	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "Rockets"})
	require.NoError(t, err)
	task, err := e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: project.ID, Title: "Launch"})
	require.NoError(t, err)

	_, err = e.projects.Get(ctx, globex, project.ID)
	nf, ok := IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "Project", nf.Resource)

	_, err = e.tasks.Get(ctx, globex, task.ID)
	_, ok = IsNotFoundError(err)
	assert.True(t, ok)

	_, err = e.users.Get(ctx, globex, acme.UserID())
	_, ok = IsNotFoundError(err)
	assert.True(t, ok)

	name := "Hijacked"
	_, err = e.projects.Update(ctx, globex, project.ID, UpdateProjectInput{Name: &name})
	_, ok = IsNotFoundError(err)
	assert.True(t, ok)

	err = e.tasks.Delete(ctx, globex, task.ID)
	_, ok = IsNotFoundError(err)
	assert.True(t, ok)

	// acme still sees its data unchanged
	view, err := e.projects.Get(ctx, acme, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rockets", view.Name)
}

func TestListingsOnlyShowOwnTenant(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	globex, _ := e.register(t, "globex")

	_, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "A"})
	require.NoError(t, err)
	_, err = e.projects.Create(ctx, globex, CreateProjectInput{Name: "G"})
	require.NoError(t, err)

	list, err := e.projects.List(ctx, acme, models.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "A", list.Projects[0].Name)

	all, err := e.projects.List(ctx, e.superAdmin(t), models.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Projects, 2)
}

func TestSuperAdminCannotCreateTenantData(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	root := e.superAdmin(t)

	_, err := e.projects.Create(ctx, root, CreateProjectInput{Name: "X"})
	sa, ok := IsSuperAdminCannotCreateError(err)
	require.True(t, ok)
	assert.Equal(t, "projects", sa.Resource)

	_, err = e.tasks.Create(ctx, root, CreateTaskInput{ProjectID: uuid.New(), Title: "X"})
	_, ok = IsSuperAdminCannotCreateError(err)
	assert.True(t, ok)

	_, err = e.users.Create(ctx, root, CreateUserInput{Email: "x@x.com", Password: testPassword, FullName: "X"})
	_, ok = IsSuperAdminCannotCreateError(err)
	assert.True(t, ok)
}

func TestSuperAdminIsReadOnlyOnTenantData(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	root := e.superAdmin(t)

	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P"})
	require.NoError(t, err)

	view, err := e.projects.Get(ctx, root, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, view.ID)

	name := "renamed"
	_, err = e.projects.Update(ctx, root, project.ID, UpdateProjectInput{Name: &name})
	_, ok := IsForbiddenError(err)
	assert.True(t, ok)

	err = e.projects.Delete(ctx, root, project.ID)
	_, ok = IsForbiddenError(err)
	assert.True(t, ok)

	err = e.users.Delete(ctx, root, acme.UserID())
	_, ok = IsForbiddenError(err)
	assert.True(t, ok)
}

func TestTenantOperationsRequireSuperAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, reg := e.register(t, "acme")
	tenantID := uuid.MustParse(reg.Tenant.ID)

	_, err := e.tenants.List(ctx, acme, models.TenantFilter{})
	_, ok := IsForbiddenError(err)
	assert.True(t, ok)

	_, err = e.tenants.Get(ctx, acme, tenantID)
	_, ok = IsForbiddenError(err)
	assert.True(t, ok)

	detail, err := e.tenants.Get(ctx, e.superAdmin(t), tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.Stats.TotalUsers)
}

func TestPlainUserCannotManageUsers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin, _ := e.register(t, "acme")
	bob := e.member(t, admin, "bob@acme.com")

	_, err := e.users.Create(ctx, bob, CreateUserInput{Email: "c@acme.com", Password: testPassword, FullName: "C"})
	_, ok := IsForbiddenError(err)
	assert.True(t, ok)

	err = e.users.Delete(ctx, bob, admin.UserID())
	_, ok = IsForbiddenError(err)
	assert.True(t, ok)

	_, err = NewAuditService(e.store).List(ctx, bob, models.Page{})
	_, ok = IsForbiddenError(err)
	assert.True(t, ok)
}

func TestAuditListIsTenantScoped(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	other, _ := e.register(t, "globex")
	acmeID, _ := acme.TenantID()

	for _, id := range []models.Identity{acme, other} {
		tid, _ := id.TenantID()
		require.NoError(t, e.store.Audit().Create(ctx, &models.AuditLog{
			TenantID: &tid, Action: models.ActionCreate, EntityType: models.EntityProject,
		}))
	}

	list, err := NewAuditService(e.store).List(ctx, acme, models.Page{})
	require.NoError(t, err)
	require.Len(t, list.Logs, 1)
	assert.Equal(t, acmeID, *list.Logs[0].TenantID)

	all, err := NewAuditService(e.store).List(ctx, e.superAdmin(t), models.Page{})
	require.NoError(t, err)
	assert.Len(t, all.Logs, 2)
}
