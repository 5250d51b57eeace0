package models

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrIdentityMissingTenant = errors.New("tenant members must carry a tenant id")
	ErrIdentityInvalidRole   = errors.New("unknown role")
)

// Identity is the verified caller of a request. It is either the super-admin,
// who belongs to no tenant, or a member of exactly one tenant. Authorization
// decisions read it; nothing re-derives super-admin status from a nil tenant.
type Identity struct {
	userID   uuid.UUID
	tenantID uuid.UUID
	role     Role
}

// SuperAdminIdentity builds the identity of the global super-admin
func SuperAdminIdentity(userID uuid.UUID) Identity {
	return Identity{userID: userID, role: RoleSuperAdmin}
}

// MemberIdentity builds the identity of a tenant_admin or user
func MemberIdentity(userID, tenantID uuid.UUID, role Role) (Identity, error) {
	if role != RoleTenantAdmin && role != RoleUser {
		return Identity{}, ErrIdentityInvalidRole
	}
	if tenantID == uuid.Nil {
		return Identity{}, ErrIdentityMissingTenant
	}
	return Identity{userID: userID, tenantID: tenantID, role: role}, nil
}

// IdentityFromClaim maps the raw claim triple onto an Identity. The super-admin
// must carry no tenant and everyone else must carry one.
func IdentityFromClaim(userID uuid.UUID, tenantID *uuid.UUID, role Role) (Identity, error) {
	switch role {
	case RoleSuperAdmin:
		if tenantID != nil {
			return Identity{}, errors.New("super admin cannot be bound to a tenant")
		}
		return SuperAdminIdentity(userID), nil
	case RoleTenantAdmin, RoleUser:
		if tenantID == nil {
			return Identity{}, ErrIdentityMissingTenant
		}
		return MemberIdentity(userID, *tenantID, role)
	default:
		return Identity{}, ErrIdentityInvalidRole
	}
}

func (i Identity) UserID() uuid.UUID { return i.userID }
func (i Identity) Role() Role        { return i.role }

// IsSuperAdmin reports whether the caller is the global super-admin
func (i Identity) IsSuperAdmin() bool {
	return i.role == RoleSuperAdmin
}

// IsAdmin reports whether the caller is a tenant_admin or the super-admin
func (i Identity) IsAdmin() bool {
	return i.role == RoleTenantAdmin || i.role == RoleSuperAdmin
}

// HasRole reports whether the caller's role is one of roles
func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.role == r {
			return true
		}
	}
	return false
}

// TenantID returns the caller's tenant; ok is false for the super-admin.
func (i Identity) TenantID() (uuid.UUID, bool) {
	if i.IsSuperAdmin() || i.tenantID == uuid.Nil {
		return uuid.Nil, false
	}
	return i.tenantID, true
}

// TenantIDPtr returns the tenant id as it appears in tokens and audit rows (nil for the super-admin)
func (i Identity) TenantIDPtr() *uuid.UUID {
	id, ok := i.TenantID()
	if !ok {
		return nil
	}
	return &id
}

// Scope is the row filter the caller's reads run under
func (i Identity) Scope() Scope {
	if i.IsSuperAdmin() {
		return GlobalScope()
	}
	return TenantScope(i.tenantID)
}

// Scope is the tenant predicate applied to every query. The zero value matches no rows.
type Scope struct {
	tenantID uuid.UUID
	global   bool
}

// GlobalScope reads across all tenants
func GlobalScope() Scope {
	return Scope{global: true}
}

// TenantScope confines reads to one tenant
func TenantScope(tenantID uuid.UUID) Scope {
	return Scope{tenantID: tenantID}
}

func (s Scope) IsGlobal() bool      { return s.global }
func (s Scope) TenantID() uuid.UUID { return s.tenantID }

// Allows reports whether a row owned by tenantID is visible in the scope
func (s Scope) Allows(tenantID uuid.UUID) bool {
	if s.global {
		return true
	}
	return s.tenantID != uuid.Nil && s.tenantID == tenantID
}
