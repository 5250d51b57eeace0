package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// UserService manages the accounts of a tenant
type UserService struct {
	store     repository.Store
	passwords *PasswordService
	audit     AuditRecorder
	logger    *logrus.Entry
}

func NewUserService(store repository.Store, passwords *PasswordService, audit AuditRecorder, logger *logrus.Logger) *UserService {
	if audit == nil {
		audit = NopRecorder{}
	}
	return &UserService{store: store, passwords: passwords, audit: audit, logger: logger.WithField("component", "users")}
}

func requireTenantAdmin(identity models.Identity) error {
	if !identity.IsAdmin() {
		return NewForbiddenError("Access denied. Tenant admin only.")
	}
	return nil
}

// CreateUserInput is a new account inside the caller's tenant
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Role     models.Role
}

// Create adds a user to the caller's tenant, enforcing the plan's user cap
func (s *UserService) Create(ctx context.Context, identity models.Identity, in CreateUserInput) (*models.Profile, error) {
	tenantID, err := memberTenant(identity, "users")
	if err != nil {
		return nil, err
	}
	if err := requireTenantAdmin(identity); err != nil {
		return nil, err
	}

	in.Email = NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if err := validateEmail("email", in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}
	if err := requireText("fullName", in.FullName, 255); err != nil {
		return nil, err
	}
	if in.Role != models.RoleUser && in.Role != models.RoleTenantAdmin {
		return nil, NewValidationError("role", "Role must be user or tenant_admin")
	}

	digest, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TenantID:     &tenantID,
		Email:        in.Email,
		PasswordHash: digest,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         in.Role,
		IsActive:     true,
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := reserveSlot(ctx, tx, tenantID, ResourceUser); err != nil {
			return err
		}
		if _, err := tx.Users().GetByEmail(ctx, user.Email, &tenantID); err == nil {
			return NewConflictError("user", "Email already exists in this tenant")
		} else if !repository.IsNotFound(err) {
			return err
		}
		if err := tx.Users().Create(ctx, user); err != nil {
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

	record(ctx, s.audit, &tenantID, identity.UserID(), models.ActionCreate, models.EntityUser, user.ID)
	profile := user.Profile()
	return &profile, nil
}

// UserList is a page of users
type UserList struct {
	Users      []models.UserView `json:"users"`
	Pagination models.Pagination `json:"pagination"`
}

// List returns the users visible to the caller
func (s *UserService) List(ctx context.Context, identity models.Identity, filter models.UserFilter) (*UserList, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, NewValidationError("role", "Unknown role")
	}
	filter.Page = filter.Page.Normalize(models.DefaultPageSize)

	users, total, err := s.store.Users().List(ctx, identity.Scope(), filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.UserView{}
	}
	return &UserList{Users: users, Pagination: models.NewPagination(filter.Page, total)}, nil
}

// Get returns one user visible to the caller
func (s *UserService) Get(ctx context.Context, identity models.Identity, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, identity.Scope(), id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

// UpdateUserInput carries optional changes
type UpdateUserInput struct {
	FullName *string
	Role     *models.Role
	Password *string
	IsActive *bool
}

// Update changes a user of the caller's tenant
func (s *UserService) Update(ctx context.Context, identity models.Identity, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	if err := requireMutator(identity, "users"); err != nil {
		return nil, err
	}
	if err := requireTenantAdmin(identity); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, identity.Scope(), id)
	if err != nil {
		return nil, notFound(err, "User")
	}

	if in.FullName != nil {
		if err := requireText("fullName", *in.FullName, 255); err != nil {
			return nil, err
		}
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Role != nil {
		if *in.Role != models.RoleUser && *in.Role != models.RoleTenantAdmin {
			return nil, NewValidationError("role", "Role must be user or tenant_admin")
		}
		if id == identity.UserID() && *in.Role != user.Role {
			return nil, NewValidationError("role", "You cannot change your own role")
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		if id == identity.UserID() && !*in.IsActive {
			return nil, NewValidationError("isActive", "You cannot deactivate your own account")
		}
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if err := validatePassword("password", *in.Password); err != nil {
			return nil, err
		}
		digest, err := s.passwords.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = digest
	}

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, notFound(err, "User")
	}

	record(ctx, s.audit, user.TenantID, identity.UserID(), models.ActionUpdate, models.EntityUser, user.ID)
	return user, nil
}

// Delete removes a user of the caller's tenant. Deleting yourself is refused.
func (s *UserService) Delete(ctx context.Context, identity models.Identity, id uuid.UUID) error {
	if err := requireMutator(identity, "users"); err != nil {
		return err
	}
	if err := requireTenantAdmin(identity); err != nil {
		return err
	}
	if id == identity.UserID() {
		return NewValidationError("id", "You cannot delete your own account")
	}

	user, err := s.store.Users().GetByID(ctx, identity.Scope(), id)
	if err != nil {
		return notFound(err, "User")
	}
	if err := s.store.Users().Delete(ctx, identity.Scope(), user.ID); err != nil {
		return notFound(err, "User")
	}

	record(ctx, s.audit, user.TenantID, identity.UserID(), models.ActionDelete, models.EntityUser, user.ID)
	s.logger.WithField("user_id", user.ID).Info("User deleted")
	return nil
}
