package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

var (
	// ErrNotFound is returned when a row does not exist or lies outside the caller's scope
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
)

// TenantRepository persists tenants. Tenants are not tenant-scoped themselves.
type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	// GetByIDForUpdate locks the tenant row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	List(ctx context.Context, filter models.TenantFilter) ([]models.Tenant, int64, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Stats(ctx context.Context, id uuid.UUID) (models.TenantStats, error)
}

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.User, error)
	// GetByEmail looks up an account inside tenantID, or the global account when tenantID is nil
	GetByEmail(ctx context.Context, email string, tenantID *uuid.UUID) (*models.User, error)
	List(ctx context.Context, scope models.Scope, filter models.UserFilter) ([]models.UserView, int64, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error
}

// ProjectRepository persists projects
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.Project, error)
	GetView(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.ProjectView, error)
	List(ctx context.Context, scope models.Scope, filter models.ProjectFilter) ([]models.ProjectView, int64, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Update(ctx context.Context, project *models.Project) error
	// Delete removes the project and its tasks
	Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error
}

// TaskRepository persists tasks
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.Task, error)
	GetView(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.TaskView, error)
	List(ctx context.Context, scope models.Scope, filter models.TaskFilter) ([]models.TaskView, int64, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error
}

// AuditRepository appends and prunes audit entries
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, scope models.Scope, page models.Page) ([]models.AuditLog, int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store groups the repositories over one connection or transaction
type Store interface {
	Tenants() TenantRepository
	Users() UserRepository
	Projects() ProjectRepository
	Tasks() TaskRepository
	Audit() AuditRepository
	// Transaction runs fn against a Store bound to a single transaction.
	// fn returning an error rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

// IsNotFound reports whether err means the row is absent or out of scope
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
