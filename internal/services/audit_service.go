package services

import (
	"context"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// AuditService reads the audit trail
type AuditService struct {
	store repository.Store
}

func NewAuditService(store repository.Store) *AuditService {
	return &AuditService{store: store}
}

// AuditList is a page of audit entries
type AuditList struct {
	Logs       []models.AuditLog `json:"logs"`
	Pagination models.Pagination `json:"pagination"`
}

// List returns entries of the caller's tenant, or every entry for the super-admin
func (s *AuditService) List(ctx context.Context, identity models.Identity, page models.Page) (*AuditList, error) {
	if err := requireTenantAdmin(identity); err != nil {
		return nil, err
	}
	page = page.Normalize(DefaultTaskPageSize)

	logs, total, err := s.store.Audit().List(ctx, identity.Scope(), page)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return &AuditList{Logs: logs, Pagination: models.NewPagination(page, total)}, nil
}
