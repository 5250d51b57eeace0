package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// TenantService administers tenant records. Every operation is super-admin only.
type TenantService struct {
	store  repository.Store
	cache  TenantCache
	audit  AuditRecorder
	logger *logrus.Entry
}

func NewTenantService(store repository.Store, cache TenantCache, audit AuditRecorder, logger *logrus.Logger) *TenantService {
	if audit == nil {
		audit = NopRecorder{}
	}
	return &TenantService{store: store, cache: cache, audit: audit, logger: logger.WithField("component", "tenants")}
}

func requireSuperAdmin(identity models.Identity) error {
	if !identity.IsSuperAdmin() {
		return NewForbiddenError("Access denied. Super admin only.")
	}
	return nil
}

// TenantList is a page of tenants
type TenantList struct {
	Tenants    []models.Tenant   `json:"tenants"`
	Pagination models.Pagination `json:"pagination"`
}

// List returns tenants newest first
func (s *TenantService) List(ctx context.Context, identity models.Identity, filter models.TenantFilter) (*TenantList, error) {
	if err := requireSuperAdmin(identity); err != nil {
		return nil, err
	}
	if filter.Plan != "" && !filter.Plan.Valid() {
		return nil, NewValidationError("plan", "Unknown subscription plan")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewValidationError("status", "Unknown tenant status")
	}
	filter.Page = filter.Page.Normalize(models.DefaultPageSize)

	tenants, total, err := s.store.Tenants().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tenants == nil {
		tenants = []models.Tenant{}
	}
	return &TenantList{Tenants: tenants, Pagination: models.NewPagination(filter.Page, total)}, nil
}

// TenantDetail is a tenant with what it owns
type TenantDetail struct {
	models.Tenant
	Stats models.TenantStats `json:"stats"`
}

// Get returns one tenant with its usage counters
func (s *TenantService) Get(ctx context.Context, identity models.Identity, id uuid.UUID) (*TenantDetail, error) {
	if err := requireSuperAdmin(identity); err != nil {
		return nil, err
	}
	tenant, err := s.store.Tenants().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Tenant")
	}
	stats, err := s.store.Tenants().Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TenantDetail{Tenant: *tenant, Stats: stats}, nil
}

// UpdateTenantInput carries optional changes; nil fields are left alone
type UpdateTenantInput struct {
	Name             *string
	Status           *models.TenantStatus
	SubscriptionPlan *models.SubscriptionPlan
	MaxUsers         *int
	MaxProjects      *int
}

func (in UpdateTenantInput) validate() error {
	if in.Name != nil {
		if err := requireText("name", *in.Name, 255); err != nil {
			return err
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		return NewValidationError("status", "Status must be active, suspended or trial")
	}
	if in.SubscriptionPlan != nil && !in.SubscriptionPlan.Valid() {
		return NewValidationError("subscriptionPlan", "Plan must be free, pro or enterprise")
	}
	if in.MaxUsers != nil && *in.MaxUsers < 1 {
		return NewValidationError("maxUsers", "maxUsers must be at least 1")
	}
	if in.MaxProjects != nil && *in.MaxProjects < 1 {
		return NewValidationError("maxProjects", "maxProjects must be at least 1")
	}
	return nil
}

// Update changes a tenant. A plan change resets caps to the plan's limits unless caps are given too.
func (s *TenantService) Update(ctx context.Context, identity models.Identity, id uuid.UUID, in UpdateTenantInput) (*models.Tenant, error) {
	if err := requireSuperAdmin(identity); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	tenant, err := s.store.Tenants().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Tenant")
	}

	if in.Name != nil {
		tenant.Name = strings.TrimSpace(*in.Name)
	}
	if in.Status != nil {
		tenant.Status = *in.Status
	}
	var plan models.SubscriptionPlan
	if in.SubscriptionPlan != nil {
		plan = *in.SubscriptionPlan
	}
	applyPlan(tenant, plan, in.MaxUsers, in.MaxProjects)

	if err := s.store.Tenants().Update(ctx, tenant); err != nil {
		return nil, notFound(err, "Tenant")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, tenant.Subdomain); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate tenant cache")
		}
	}
	record(ctx, s.audit, &tenant.ID, identity.UserID(), models.ActionUpdate, models.EntityTenant, tenant.ID)

	s.logger.WithFields(logrus.Fields{
		"tenant_id": tenant.ID,
		"status":    tenant.Status,
		"plan":      tenant.SubscriptionPlan,
	}).Info("Tenant updated")
	return tenant, nil
}
