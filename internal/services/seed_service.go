package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// SeedService creates the system anchor tenant and the global super-admin
type SeedService struct {
	store     repository.Store
	passwords *PasswordService
	logger    *logrus.Entry
}

func NewSeedService(store repository.Store, passwords *PasswordService, logger *logrus.Logger) *SeedService {
	return &SeedService{store: store, passwords: passwords, logger: logger.WithField("component", "seed")}
}

// EnsureSystemTenant creates the tenant the super-admin's login resolves through. It reports whether a row was created.
func (s *SeedService) EnsureSystemTenant(ctx context.Context, subdomain string) (*models.Tenant, bool, error) {
	tenant, err := s.store.Tenants().GetBySubdomain(ctx, subdomain)
	if err == nil {
		return tenant, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, err
	}

	limits := models.PlanEnterprise.Limits()
	tenant = &models.Tenant{
		Name:             "System",
		Subdomain:        subdomain,
		Status:           models.TenantStatusActive,
		SubscriptionPlan: models.PlanEnterprise,
		MaxUsers:         limits.MaxUsers,
		MaxProjects:      limits.MaxProjects,
	}
	if err := s.store.Tenants().Create(ctx, tenant); err != nil {
		if repository.IsDuplicate(err) {
			existing, getErr := s.store.Tenants().GetBySubdomain(ctx, subdomain)
			return existing, false, getErr
		}
		return nil, false, err
	}

	s.logger.WithField("subdomain", subdomain).Info("Created system tenant")
	return tenant, true, nil
}

// EnsureSuperAdmin creates the tenant-less super-admin if no global account uses email
func (s *SeedService) EnsureSuperAdmin(ctx context.Context, email, password, fullName string) (*models.User, bool, error) {
	email = NormalizeEmail(email)
	if err := validateEmail("email", email); err != nil {
		return nil, false, err
	}
	if err := validatePassword("password", password); err != nil {
		return nil, false, err
	}
	if fullName == "" {
		fullName = "Super Admin"
	}

	existing, err := s.store.Users().GetByEmail(ctx, email, nil)
	if err == nil {
		return existing, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, err
	}

	digest, err := s.passwords.Hash(password)
	if err != nil {
		return nil, false, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: digest,
		FullName:     fullName,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, false, err
	}

	s.logger.WithField("email", email).Info("Created super admin")
	return user, true, nil
}
