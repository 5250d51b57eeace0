package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// AuditRecorder accepts audit entries without blocking the caller
type AuditRecorder interface {
	Record(entry models.AuditLog)
}

// NopRecorder discards every entry
type NopRecorder struct{}

func (NopRecorder) Record(models.AuditLog) {}

// RequestMeta carries request attributes copied into audit entries
type RequestMeta struct {
	IPAddress string
	RequestID string
}

type requestMetaKey struct{}

// WithRequestMeta attaches meta to ctx
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func requestMeta(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// record builds an audit entry and hands it to the recorder
func record(ctx context.Context, rec AuditRecorder, tenantID *uuid.UUID, userID uuid.UUID, action models.AuditAction, entityType string, entityID uuid.UUID) {
	meta := requestMeta(ctx)
	uid := userID
	eid := entityID
	entry := models.AuditLog{
		TenantID:   tenantID,
		UserID:     &uid,
		Action:     action,
		EntityType: entityType,
		IPAddress:  meta.IPAddress,
		RequestID:  meta.RequestID,
	}
	if entityID != uuid.Nil {
		entry.EntityID = &eid
	}
	rec.Record(entry)
}

var (
	subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const minPasswordLength = 8

// NormalizeEmail lower-cases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeSubdomain lower-cases and trims a subdomain
func NormalizeSubdomain(subdomain string) string {
	return strings.ToLower(strings.TrimSpace(subdomain))
}

func validateSubdomain(subdomain string) error {
	if len(subdomain) < 3 || len(subdomain) > 63 {
		return NewValidationError("subdomain", "Subdomain must be between 3 and 63 characters")
	}
	if !subdomainPattern.MatchString(subdomain) {
		return NewValidationError("subdomain", "Subdomain may contain lowercase letters, numbers and inner hyphens only")
	}
	return nil
}

func validateEmail(field, email string) error {
	if !emailPattern.MatchString(email) {
		return NewValidationError(field, "Invalid email format")
	}
	return nil
}

func validatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return NewValidationError(field, "Password must be at least 8 characters long")
	}
	return nil
}

func requireText(field, value string, max int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return NewValidationError(field, field+" is required")
	}
	if utf8.RuneCountInString(value) > max {
		return NewValidationError(field, field+" is too long")
	}
	return nil
}

// notFound maps a repository miss onto the service error for resource
func notFound(err error, resource string) error {
	if repository.IsNotFound(err) {
		return NewNotFoundError(resource)
	}
	return err
}

// memberTenant returns the tenant a write is attributed to, rejecting the super-admin
func memberTenant(identity models.Identity, resource string) (uuid.UUID, error) {
	tenantID, ok := identity.TenantID()
	if !ok {
		return uuid.Nil, &SuperAdminCannotCreateError{Resource: resource}
	}
	return tenantID, nil
}

// requireMutator rejects the super-admin on update and delete of tenant business data
func requireMutator(identity models.Identity, resource string) error {
	if identity.IsSuperAdmin() {
		return NewForbiddenError("Super admin has read-only access to " + resource)
	}
	return nil
}
