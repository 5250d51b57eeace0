package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/metrics"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// Plan-capped resources
const (
	ResourceUser    = "User"
	ResourceProject = "Project"
)

// reserveSlot locks the tenant row and fails with LimitExceededError when the tenant
// already owns its cap of resource. It must run inside tx so the lock is held until
// the insert commits.
func reserveSlot(ctx context.Context, tx repository.Store, tenantID uuid.UUID, resource string) error {
	tenant, err := tx.Tenants().GetByIDForUpdate(ctx, tenantID)
	if err != nil {
		return notFound(err, "Tenant")
	}

	var (
		current int64
		limit   int
	)
	switch resource {
	case ResourceUser:
		current, err = tx.Users().CountByTenant(ctx, tenantID)
		limit = tenant.MaxUsers
	case ResourceProject:
		current, err = tx.Projects().CountByTenant(ctx, tenantID)
		limit = tenant.MaxProjects
	}
	if err != nil {
		return err
	}

	if current >= int64(limit) {
		metrics.ObserveLimitRejected(resource)
		return &LimitExceededError{Resource: resource, Current: current, Limit: limit}
	}
	return nil
}

// applyPlan moves tenant onto plan. Caps reset to the plan's limits unless explicit overrides are given.
func applyPlan(tenant *models.Tenant, plan models.SubscriptionPlan, maxUsers, maxProjects *int) {
	if plan != "" && plan != tenant.SubscriptionPlan {
		tenant.SubscriptionPlan = plan
		limits := plan.Limits()
		tenant.MaxUsers = limits.MaxUsers
		tenant.MaxProjects = limits.MaxProjects
	}
	if maxUsers != nil {
		tenant.MaxUsers = *maxUsers
	}
	if maxProjects != nil {
		tenant.MaxProjects = *maxProjects
	}
}
