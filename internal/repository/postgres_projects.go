package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

const projectViewColumns = `projects.*,
	tenants.name AS tenant_name,
	creators.full_name AS creator_name,
	(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id) AS task_count,
	(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id AND tasks.status = 'completed') AS completed_task_count`

type pgProjects struct {
	db *gorm.DB
}

func (r *pgProjects) Create(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Create(project).Error, "create project")
}

func (r *pgProjects) GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := scoped(r.db.WithContext(ctx), scope, "tenant_id").Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, translate(err, "get project")
	}
	return &project, nil
}

func (r *pgProjects) views(ctx context.Context, scope models.Scope) *gorm.DB {
	return scoped(r.db.WithContext(ctx).Model(&models.Project{}), scope, "projects.tenant_id")
}

func (r *pgProjects) GetView(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.ProjectView, error) {
	var views []models.ProjectView
	err := r.views(ctx, scope).
		Select(projectViewColumns).
		Joins("LEFT JOIN tenants ON tenants.id = projects.tenant_id").
		Joins("LEFT JOIN users AS creators ON creators.id = projects.created_by").
		Where("projects.id = ?", id).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return nil, translate(err, "get project")
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (r *pgProjects) List(ctx context.Context, scope models.Scope, filter models.ProjectFilter) ([]models.ProjectView, int64, error) {
	query := r.views(ctx, scope)
	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where(`projects.name ILIKE ? ESCAPE '\'`, containsPattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count projects")
	}

	var projects []models.ProjectView
	err := paginate(query, filter.Page).
		Select(projectViewColumns).
		Joins("LEFT JOIN tenants ON tenants.id = projects.tenant_id").
		Joins("LEFT JOIN users AS creators ON creators.id = projects.created_by").
		Order("projects.created_at DESC").
		Scan(&projects).Error
	if err != nil {
		return nil, 0, translate(err, "list projects")
	}
	return projects, total, nil
}

func (r *pgProjects) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, translate(err, "count projects")
}

func (r *pgProjects) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND tenant_id = ?", project.ID, project.TenantID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"updated_at":  project.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error, "update project")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgProjects) Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := scoped(tx, scope, "tenant_id").Where("id = ?", id).First(&project).Error; err != nil {
			return translate(err, "get project")
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return translate(err, "delete project tasks")
		}
		if err := tx.Where("id = ?", project.ID).Delete(&models.Project{}).Error; err != nil {
			return translate(err, "delete project")
		}
		return nil
	})
}
