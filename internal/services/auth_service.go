package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/metrics"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// TenantCache caches tenant rows by subdomain. Get returns nil on a miss.
type TenantCache interface {
	Get(ctx context.Context, subdomain string) (*models.Tenant, error)
	Set(ctx context.Context, tenant *models.Tenant) error
	Invalidate(ctx context.Context, subdomain string) error
}

// AuthConfig holds the login policy
type AuthConfig struct {
	SuperAdminEmail       string
	SystemSubdomain       string
	BlockSuspendedTenants bool
}

// AuthService runs registration, login and profile lookups
type AuthService struct {
	store     repository.Store
	passwords *PasswordService
	tokens    *TokenService
	cache     TenantCache
	audit     AuditRecorder
	cfg       AuthConfig
	logger    *logrus.Entry
	dummyHash string
}

// NewAuthService creates the authentication flow. cache may be nil.
func NewAuthService(store repository.Store, passwords *PasswordService, tokens *TokenService, cache TenantCache, audit AuditRecorder, cfg AuthConfig, logger *logrus.Logger) (*AuthService, error) {
	if audit == nil {
		audit = NopRecorder{}
	}
	// compared against when no account matched so both paths cost one bcrypt run
	dummy, err := passwords.Hash("taskhub-timing-equalizer")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		store:     store,
		passwords: passwords,
		tokens:    tokens,
		cache:     cache,
		audit:     audit,
		cfg:       cfg,
		logger:    logger.WithField("component", "auth"),
		dummyHash: dummy,
	}, nil
}

// LoginInput is the login request
type LoginInput struct {
	Email           string
	Password        string
	TenantSubdomain string
}

// AuthResult is returned by a successful login
type AuthResult struct {
	User  models.Profile `json:"user"`
	Token string         `json:"token"`
}

// Login resolves the tenant, verifies credentials and issues a token.
// The super-admin may sign in through any tenant's subdomain; its token never carries a tenant.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)
	subdomain := NormalizeSubdomain(in.TenantSubdomain)

	if email == "" || in.Password == "" {
		return nil, NewValidationError("email", "Email and password are required")
	}
	if subdomain == "" {
		if email != NormalizeEmail(s.cfg.SuperAdminEmail) {
			return nil, NewValidationError("tenantSubdomain", "Tenant subdomain is required")
		}
		subdomain = s.cfg.SystemSubdomain
	}

	tenant, err := s.resolveTenant(ctx, subdomain)
	if err != nil {
		metrics.ObserveLogin("tenant_not_found")
		return nil, err
	}

	user, err := s.resolveUser(ctx, email, tenant)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// keep timing uniform with the password-check path
		_, _ = s.passwords.Verify(in.Password, s.dummyHash)
		metrics.ObserveLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	ok, err := s.passwords.Verify(in.Password, user.PasswordHash)
	if err != nil {
		s.logger.WithField("user_id", user.ID).WithError(err).Error("Password verification failed")
		return nil, err
	}
	if !ok || !user.IsActive {
		metrics.ObserveLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	var identity models.Identity
	if user.Role == models.RoleSuperAdmin {
		identity = models.SuperAdminIdentity(user.ID)
	} else {
		if s.cfg.BlockSuspendedTenants && tenant.Status == models.TenantStatusSuspended {
			metrics.ObserveLogin("tenant_suspended")
			return nil, ErrTenantSuspended
		}
		identity, err = models.MemberIdentity(user.ID, tenant.ID, user.Role)
		if err != nil {
			return nil, err
		}
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.logger.WithError(err).Error("Failed to issue token")
		return nil, err
	}

	tenantID := tenant.ID
	record(ctx, s.audit, &tenantID, user.ID, models.ActionLogin, models.EntityUser, user.ID)
	metrics.ObserveLogin("success")

	s.logger.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"role":      user.Role,
		"subdomain": subdomain,
	}).Info("User logged in")

	profile := user.Profile()
	profile.TenantID = identity.TenantIDPtr()
	return &AuthResult{User: profile, Token: token}, nil
}

// resolveTenant reads through the cache; cache failures fall back to the store
func (s *AuthService) resolveTenant(ctx context.Context, subdomain string) (*models.Tenant, error) {
	if s.cache != nil {
		tenant, err := s.cache.Get(ctx, subdomain)
		if err != nil {
			s.logger.WithError(err).Warn("Tenant cache lookup failed")
		} else if tenant != nil {
			return tenant, nil
		}
	}

	tenant, err := s.store.Tenants().GetBySubdomain(ctx, subdomain)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenant); err != nil {
			s.logger.WithError(err).Warn("Failed to cache tenant")
		}
	}
	return tenant, nil
}

// resolveUser looks inside the tenant first, then falls back to the global super-admin.
// A nil user with nil error means no account matched.
func (s *AuthService) resolveUser(ctx context.Context, email string, tenant *models.Tenant) (*models.User, error) {
	user, err := s.store.Users().GetByEmail(ctx, email, &tenant.ID)
	if err == nil {
		return user, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	user, err = s.store.Users().GetByEmail(ctx, email, nil)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if user.Role != models.RoleSuperAdmin {
		return nil, nil
	}
	return user, nil
}

// RegisterInput bootstraps a tenant with its first admin
type RegisterInput struct {
	TenantName    string
	Subdomain     string
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

// TenantSummary is the tenant block of the registration response
type TenantSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

// RegisterResult is returned by a successful registration
type RegisterResult struct {
	Tenant TenantSummary  `json:"tenant"`
	User   models.Profile `json:"user"`
	Token  string         `json:"token"`
}

func (in *RegisterInput) normalize() {
	in.Subdomain = NormalizeSubdomain(in.Subdomain)
	in.AdminEmail = NormalizeEmail(in.AdminEmail)
}

func (in RegisterInput) validate() error {
	if err := requireText("tenantName", in.TenantName, 255); err != nil {
		return err
	}
	if err := validateSubdomain(in.Subdomain); err != nil {
		return err
	}
	if err := validateEmail("adminEmail", in.AdminEmail); err != nil {
		return err
	}
	if err := validatePassword("adminPassword", in.AdminPassword); err != nil {
		return err
	}
	return requireText("adminFullName", in.AdminFullName, 255)
}

// Register creates a tenant on the free plan and its tenant_admin in one transaction
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	subdomainTaken := NewConflictError("tenant", "Subdomain already taken")
	if in.Subdomain == s.cfg.SystemSubdomain {
		return nil, subdomainTaken
	}
	if _, err := s.store.Tenants().GetBySubdomain(ctx, in.Subdomain); err == nil {
		return nil, subdomainTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	digest, err := s.passwords.Hash(in.AdminPassword)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		Name:             in.TenantName,
		Subdomain:        in.Subdomain,
		Status:           models.TenantStatusActive,
		SubscriptionPlan: models.PlanFree,
	}
	admin := &models.User{
		Email:        in.AdminEmail,
		PasswordHash: digest,
		FullName:     in.AdminFullName,
		Role:         models.RoleTenantAdmin,
		IsActive:     true,
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Tenants().Create(ctx, tenant); err != nil {
			if repository.IsDuplicate(err) {
				return subdomainTaken
			}
			return err
		}
		admin.TenantID = &tenant.ID
		if err := tx.Users().Create(ctx, admin); err != nil {
			if repository.IsDuplicate(err) {
				return NewConflictError("user", "Email already exists in this tenant")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	identity, err := models.MemberIdentity(admin.ID, tenant.ID, admin.Role)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}

	record(ctx, s.audit, &tenant.ID, admin.ID, models.ActionCreate, models.EntityTenant, tenant.ID)
	s.logger.WithFields(logrus.Fields{
		"tenant_id": tenant.ID,
		"subdomain": tenant.Subdomain,
	}).Info("Tenant registered")

	return &RegisterResult{
		Tenant: TenantSummary{ID: tenant.ID.String(), Name: tenant.Name, Subdomain: tenant.Subdomain},
		User:   admin.Profile(),
		Token:  token,
	}, nil
}

// MeResult is the caller's own profile with its tenant
type MeResult struct {
	models.Profile
	Tenant *models.Tenant `json:"tenant,omitempty"`
}

// Me returns the caller's profile. A token for a deleted account yields NotFound.
func (s *AuthService) Me(ctx context.Context, identity models.Identity) (*MeResult, error) {
	user, err := s.store.Users().GetByID(ctx, identity.Scope(), identity.UserID())
	if err != nil {
		return nil, notFound(err, "User")
	}

	result := &MeResult{Profile: user.Profile()}
	if tenantID, ok := identity.TenantID(); ok {
		tenant, err := s.store.Tenants().GetByID(ctx, tenantID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		result.Tenant = tenant
	}
	return result, nil
}

// Logout records the event. Tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, identity models.Identity) {
	record(ctx, s.audit, identity.TenantIDPtr(), identity.UserID(), models.ActionLogout, models.EntityUser, identity.UserID())
}

// IsCredentialError reports whether err is one of the login failures shown to clients as 401
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
