package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

type pgTenants struct {
	db *gorm.DB
}

func (r *pgTenants) Create(ctx context.Context, tenant *models.Tenant) error {
	return translate(r.db.WithContext(ctx).Create(tenant).Error, "create tenant")
}

func (r *pgTenants) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		return nil, translate(err, "get tenant")
	}
	return &tenant, nil
}

func (r *pgTenants) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&tenant).Error
	if err != nil {
		return nil, translate(err, "lock tenant")
	}
	return &tenant, nil
}

func (r *pgTenants) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&tenant).Error; err != nil {
		return nil, translate(err, "get tenant by subdomain")
	}
	return &tenant, nil
}

func (r *pgTenants) List(ctx context.Context, filter models.TenantFilter) ([]models.Tenant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Tenant{})
	if filter.Plan != "" {
		query = query.Where("subscription_plan = ?", filter.Plan)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count tenants")
	}

	var tenants []models.Tenant
	if err := paginate(query, filter.Page).Order("created_at DESC").Find(&tenants).Error; err != nil {
		return nil, 0, translate(err, "list tenants")
	}
	return tenants, total, nil
}

func (r *pgTenants) Update(ctx context.Context, tenant *models.Tenant) error {
	tenant.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(map[string]interface{}{
			"name":              tenant.Name,
			"status":            tenant.Status,
			"subscription_plan": tenant.SubscriptionPlan,
			"max_users":         tenant.MaxUsers,
			"max_projects":      tenant.MaxProjects,
			"updated_at":        tenant.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error, "update tenant")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgTenants) Stats(ctx context.Context, id uuid.UUID) (models.TenantStats, error) {
	var stats models.TenantStats
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Where("tenant_id = ?", id).Count(&stats.TotalUsers).Error; err != nil {
		return stats, translate(err, "count users")
	}
	if err := db.Model(&models.Project{}).Where("tenant_id = ?", id).Count(&stats.TotalProjects).Error; err != nil {
		return stats, translate(err, "count projects")
	}
	if err := db.Model(&models.Task{}).Where("tenant_id = ?", id).Count(&stats.TotalTasks).Error; err != nil {
		return stats, translate(err, "count tasks")
	}
	return stats, nil
}
