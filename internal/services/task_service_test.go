package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

func TestCreateTaskDefaults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P"})
	require.NoError(t, err)

	task, err := e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: project.ID, Title: "  Write docs "})
	require.NoError(t, err)
	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, project.TenantID, task.TenantID)
}

func TestCreateTaskAssigneeMustBeInTenant(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	globex, _ := e.register(t, "globex")
	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P"})
	require.NoError(t, err)

	outsider := globex.UserID()
	_, err = e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: project.ID, Title: "T", AssignedTo: &outsider})
	verr, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "assignedTo", verr.Field)

	task, err := e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: project.ID, Title: "T"})
	require.NoError(t, err)
	_, err = e.tasks.Update(ctx, acme, task.ID, UpdateTaskInput{AssignedTo: &outsider})
	_, ok = IsValidationError(err)
	assert.True(t, ok)
}

func TestCreateTaskInInvisibleProject(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	globex, _ := e.register(t, "globex")
	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P"})
	require.NoError(t, err)

	_, err = e.tasks.Create(ctx, globex, CreateTaskInput{ProjectID: project.ID, Title: "T"})
	nf, ok := IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "Project", nf.Resource)

	_, err = e.tasks.ListByProject(ctx, globex, project.ID, models.TaskFilter{})
	_, ok = IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUpdateTaskClearsFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	adminID := acme.UserID()
	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P"})
	require.NoError(t, err)
	task, err := e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: project.ID, Title: "T", AssignedTo: &adminID, DueDate: &due})
	require.NoError(t, err)

	high := models.PriorityHigh
	updated, err := e.tasks.Update(ctx, acme, task.ID, UpdateTaskInput{Priority: &high, ClearAssignee: true, ClearDueDate: true})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Nil(t, updated.AssignedTo)
	assert.Nil(t, updated.DueDate)
}

func TestUpdateTaskStatusByMember(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	bob := e.member(t, acme, "bob@acme.com")

	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P"})
	require.NoError(t, err)
	task, err := e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: project.ID, Title: "T"})
	require.NoError(t, err)

	updated, err := e.tasks.UpdateStatus(ctx, bob, task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)

	_, err = e.tasks.UpdateStatus(ctx, bob, task.ID, models.TaskStatus("done"))
	_, ok := IsValidationError(err)
	assert.True(t, ok)

	view, err := e.projects.Get(ctx, acme, project.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, view.TaskCount)
	assert.EqualValues(t, 1, view.CompletedTaskCount)
}

func TestListTasksFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")
	adminID := acme.UserID()

	p1, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P1"})
	require.NoError(t, err)
	p2, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P2"})
	require.NoError(t, err)

	_, err = e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: p1.ID, Title: "a", Priority: models.PriorityHigh, AssignedTo: &adminID})
	require.NoError(t, err)
	_, err = e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: p1.ID, Title: "b", Priority: models.PriorityLow})
	require.NoError(t, err)
	_, err = e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: p2.ID, Title: "c", Priority: models.PriorityHigh})
	require.NoError(t, err)

	list, err := e.tasks.ListByProject(ctx, acme, p1.ID, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, list.Tasks, 2)
	assert.Equal(t, DefaultTaskPageSize, list.Pagination.Limit)

	list, err = e.tasks.List(ctx, acme, models.TaskFilter{Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.Len(t, list.Tasks, 2)

	list, err = e.tasks.List(ctx, acme, models.TaskFilter{AssignedTo: &adminID})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "a", list.Tasks[0].Title)

	_, err = e.tasks.List(ctx, acme, models.TaskFilter{Status: "bogus"})
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}

func TestDeleteProjectRemovesTasks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme, _ := e.register(t, "acme")

	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P"})
	require.NoError(t, err)
	task, err := e.tasks.Create(ctx, acme, CreateTaskInput{ProjectID: project.ID, Title: "T"})
	require.NoError(t, err)

	require.NoError(t, e.projects.Delete(ctx, acme, project.ID))

	_, err = e.tasks.Get(ctx, acme, task.ID)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)

	// the freed slot can be reused
	_, err = e.projects.Create(ctx, acme, CreateProjectInput{Name: "again"})
	assert.NoError(t, err)
}

func TestGetMissingTask(t *testing.T) {
	e := newEnv(t)
	acme, _ := e.register(t, "acme")

	_, err := e.tasks.Get(context.Background(), acme, uuid.New())
	nf, ok := IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "Task", nf.Resource)
}

func TestAuditCarriesRequestMeta(t *testing.T) {
	e := newEnv(t)
	acme, _ := e.register(t, "acme")
	ctx := WithRequestMeta(context.Background(), RequestMeta{IPAddress: "10.0.0.1", RequestID: "req-1"})

	project, err := e.projects.Create(ctx, acme, CreateProjectInput{Name: "P"})
	require.NoError(t, err)

	entry := e.audit.last()
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.EntityID)
	assert.Equal(t, project.ID, *entry.EntityID)
}
