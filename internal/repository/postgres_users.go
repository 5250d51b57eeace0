package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

type pgUsers struct {
	db *gorm.DB
}

func (r *pgUsers) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user")
}

func (r *pgUsers) GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := scoped(r.db.WithContext(ctx), scope, "tenant_id").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *pgUsers) GetByEmail(ctx context.Context, email string, tenantID *uuid.UUID) (*models.User, error) {
	query := r.db.WithContext(ctx).Where("email = ?", email)
	if tenantID == nil {
		query = query.Where("tenant_id IS NULL")
	} else {
		query = query.Where("tenant_id = ?", *tenantID)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

func (r *pgUsers) List(ctx context.Context, scope models.Scope, filter models.UserFilter) ([]models.UserView, int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.User{}), scope, "users.tenant_id")
	if filter.Role != "" {
		query = query.Where("users.role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := containsPattern(filter.Search)
		query = query.Where(`(users.full_name ILIKE ? ESCAPE '\' OR users.email ILIKE ? ESCAPE '\')`, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count users")
	}

	var users []models.UserView
	err := paginate(query, filter.Page).
		Select("users.*, tenants.name AS tenant_name").
		Joins("LEFT JOIN tenants ON tenants.id = users.tenant_id").
		Order("users.created_at DESC").
		Scan(&users).Error
	if err != nil {
		return nil, 0, translate(err, "list users")
	}
	return users, total, nil
}

func (r *pgUsers) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, translate(err, "count users")
}

func (r *pgUsers) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID)
	if user.TenantID == nil {
		query = query.Where("tenant_id IS NULL")
	} else {
		query = query.Where("tenant_id = ?", *user.TenantID)
	}

	result := query.Updates(map[string]interface{}{
		"full_name":     user.FullName,
		"role":          user.Role,
		"is_active":     user.IsActive,
		"password_hash": user.PasswordHash,
		"updated_at":    user.UpdatedAt,
	})
	if result.Error != nil {
		return translate(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgUsers) Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error {
	result := scoped(r.db.WithContext(ctx), scope, "tenant_id").Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return translate(result.Error, "delete user")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
