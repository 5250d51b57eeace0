package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

type pgAudit struct {
	db *gorm.DB
}

func (r *pgAudit) Create(ctx context.Context, entry *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, "create audit log")
}

func (r *pgAudit) List(ctx context.Context, scope models.Scope, page models.Page) ([]models.AuditLog, int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.AuditLog{}), scope, "tenant_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count audit logs")
	}

	var entries []models.AuditLog
	if err := paginate(query, page).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, translate(err, "list audit logs")
	}
	return entries, total, nil
}

func (r *pgAudit) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, translate(result.Error, "delete audit logs")
	}
	return result.RowsAffected, nil
}
