package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

const taskViewColumns = `tasks.*,
	tenants.name AS tenant_name,
	projects.name AS project_name,
	assignees.full_name AS assignee_name`

type pgTasks struct {
	db *gorm.DB
}

func (r *pgTasks) Create(ctx context.Context, task *models.Task) error {
	return translate(r.db.WithContext(ctx).Create(task).Error, "create task")
}

func (r *pgTasks) GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := scoped(r.db.WithContext(ctx), scope, "tenant_id").Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, translate(err, "get task")
	}
	return &task, nil
}

func (r *pgTasks) views(ctx context.Context, scope models.Scope) *gorm.DB {
	return scoped(r.db.WithContext(ctx).Model(&models.Task{}), scope, "tasks.tenant_id").
		Joins("LEFT JOIN tenants ON tenants.id = tasks.tenant_id").
		Joins("LEFT JOIN projects ON projects.id = tasks.project_id").
		Joins("LEFT JOIN users AS assignees ON assignees.id = tasks.assigned_to")
}

func (r *pgTasks) GetView(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.TaskView, error) {
	var views []models.TaskView
	err := r.views(ctx, scope).
		Select(taskViewColumns).
		Where("tasks.id = ?", id).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return nil, translate(err, "get task")
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (r *pgTasks) List(ctx context.Context, scope models.Scope, filter models.TaskFilter) ([]models.TaskView, int64, error) {
	query := r.views(ctx, scope)
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Where("tasks.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count tasks")
	}

	var tasks []models.TaskView
	err := paginate(query, filter.Page).
		Select(taskViewColumns).
		Order("tasks.created_at DESC").
		Scan(&tasks).Error
	if err != nil {
		return nil, 0, translate(err, "list tasks")
	}
	return tasks, total, nil
}

func (r *pgTasks) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND tenant_id = ?", task.ID, task.TenantID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"assigned_to": task.AssignedTo,
			"due_date":    task.DueDate,
			"updated_at":  task.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error, "update task")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgTasks) Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error {
	result := scoped(r.db.WithContext(ctx), scope, "tenant_id").Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return translate(result.Error, "delete task")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
