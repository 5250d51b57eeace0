package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// DefaultTaskPageSize is the page size of task listings
const DefaultTaskPageSize = 20

// TaskService manages tasks inside tenant projects
type TaskService struct {
	store  repository.Store
	audit  AuditRecorder
	logger *logrus.Entry
}

func NewTaskService(store repository.Store, audit AuditRecorder, logger *logrus.Logger) *TaskService {
	if audit == nil {
		audit = NopRecorder{}
	}
	return &TaskService{store: store, audit: audit, logger: logger.WithField("component", "tasks")}
}

// CreateTaskInput is a new task in a project of the caller's tenant
type CreateTaskInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  *uuid.UUID
}

// checkAssignee requires the assignee to be a user of tenantID
func (s *TaskService) checkAssignee(ctx context.Context, tenantID uuid.UUID, assignee *uuid.UUID) error {
	if assignee == nil {
		return nil
	}
	if _, err := s.store.Users().GetByID(ctx, models.TenantScope(tenantID), *assignee); err != nil {
		if repository.IsNotFound(err) {
			return NewValidationError("assignedTo", "Assigned user does not belong to this tenant")
		}
		return err
	}
	return nil
}

// Create adds a task to a project the caller can see
func (s *TaskService) Create(ctx context.Context, identity models.Identity, in CreateTaskInput) (*models.Task, error) {
	tenantID, err := memberTenant(identity, "tasks")
	if err != nil {
		return nil, err
	}
	if err := requireText("title", in.Title, 255); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, NewValidationError("priority", "Priority must be low, medium or high")
	}

	project, err := s.store.Projects().GetByID(ctx, identity.Scope(), in.ProjectID)
	if err != nil {
		return nil, notFound(err, "Project")
	}
	if err := s.checkAssignee(ctx, tenantID, in.AssignedTo); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   project.ID,
		TenantID:    project.TenantID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      models.TaskStatusTodo,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		CreatedBy:   identity.UserID(),
	}
	if err := s.store.Tasks().Create(ctx, task); err != nil {
		return nil, notFound(err, "Project")
	}

	record(ctx, s.audit, &tenantID, identity.UserID(), models.ActionCreate, models.EntityTask, task.ID)
	return task, nil
}

// TaskList is a page of tasks
type TaskList struct {
	Tasks      []models.TaskView `json:"tasks"`
	Pagination models.Pagination `json:"pagination"`
}

// List returns the tasks visible to the caller
func (s *TaskService) List(ctx context.Context, identity models.Identity, filter models.TaskFilter) (*TaskList, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewValidationError("status", "Unknown task status")
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, NewValidationError("priority", "Unknown task priority")
	}
	filter.Page = filter.Page.Normalize(DefaultTaskPageSize)

	tasks, total, err := s.store.Tasks().List(ctx, identity.Scope(), filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.TaskView{}
	}
	return &TaskList{Tasks: tasks, Pagination: models.NewPagination(filter.Page, total)}, nil
}

// ListByProject returns the tasks of one project. An invisible project is NotFound.
func (s *TaskService) ListByProject(ctx context.Context, identity models.Identity, projectID uuid.UUID, filter models.TaskFilter) (*TaskList, error) {
	if _, err := s.store.Projects().GetByID(ctx, identity.Scope(), projectID); err != nil {
		return nil, notFound(err, "Project")
	}
	filter.ProjectID = &projectID
	return s.List(ctx, identity, filter)
}

// Get returns one task visible to the caller
func (s *TaskService) Get(ctx context.Context, identity models.Identity, id uuid.UUID) (*models.TaskView, error) {
	task, err := s.store.Tasks().GetView(ctx, identity.Scope(), id)
	if err != nil {
		return nil, notFound(err, "Task")
	}
	return task, nil
}

// UpdateTaskInput carries optional changes. ClearAssignee and ClearDueDate null the fields.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssignedTo    *uuid.UUID
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

// Update changes a task of the caller's tenant
func (s *TaskService) Update(ctx context.Context, identity models.Identity, id uuid.UUID, in UpdateTaskInput) (*models.Task, error) {
	if err := requireMutator(identity, "tasks"); err != nil {
		return nil, err
	}

	task, err := s.store.Tasks().GetByID(ctx, identity.Scope(), id)
	if err != nil {
		return nil, notFound(err, "Task")
	}

	if in.Title != nil {
		if err := requireText("title", *in.Title, 255); err != nil {
			return nil, err
		}
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, NewValidationError("status", "Status must be todo, in_progress or completed")
		}
		task.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, NewValidationError("priority", "Priority must be low, medium or high")
		}
		task.Priority = *in.Priority
	}
	switch {
	case in.ClearAssignee:
		task.AssignedTo = nil
	case in.AssignedTo != nil:
		if err := s.checkAssignee(ctx, task.TenantID, in.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = in.AssignedTo
	}
	switch {
	case in.ClearDueDate:
		task.DueDate = nil
	case in.DueDate != nil:
		task.DueDate = in.DueDate
	}

	if err := s.store.Tasks().Update(ctx, task); err != nil {
		return nil, notFound(err, "Task")
	}

	record(ctx, s.audit, &task.TenantID, identity.UserID(), models.ActionUpdate, models.EntityTask, task.ID)
	return task, nil
}

// UpdateStatus moves a task to status
func (s *TaskService) UpdateStatus(ctx context.Context, identity models.Identity, id uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, NewValidationError("status", "Status must be todo, in_progress or completed")
	}
	return s.Update(ctx, identity, id, UpdateTaskInput{Status: &status})
}

// Delete removes a task of the caller's tenant
func (s *TaskService) Delete(ctx context.Context, identity models.Identity, id uuid.UUID) error {
	if err := requireMutator(identity, "tasks"); err != nil {
		return err
	}

	task, err := s.store.Tasks().GetByID(ctx, identity.Scope(), id)
	if err != nil {
		return notFound(err, "Task")
	}
	if err := s.store.Tasks().Delete(ctx, identity.Scope(), task.ID); err != nil {
		return notFound(err, "Task")
	}

	record(ctx, s.audit, &task.TenantID, identity.UserID(), models.ActionDelete, models.EntityTask, task.ID)
	return nil
}
