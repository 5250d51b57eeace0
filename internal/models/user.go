package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a user's place in the authorization hierarchy
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleUser        Role = "user"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleUser:
		return true
	}
	return false
}

// User is an account. TenantID is nil only for the super-admin.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID     *uuid.UUID `gorm:"type:uuid;index" json:"tenant_id"`
	Email        string     `gorm:"size:255;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	FullName     string     `gorm:"size:255;not null" json:"full_name"`
	Role         Role       `gorm:"size:20;not null;default:user" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an id
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PrepareForInsert fills the fields the database hook would set
func (u *User) PrepareForInsert(now time.Time) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

// Profile is the public projection of a user; it never carries the password digest.
type Profile struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	FullName string     `json:"fullName"`
	Role     Role       `json:"role"`
	TenantID *uuid.UUID `json:"tenantId"`
}

// Profile returns the sanitized projection of u
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		TenantID: u.TenantID,
	}
}

// UserView is a user row annotated with its tenant, used by listings
type UserView struct {
	User       `gorm:"embedded"`
	TenantName string `json:"tenant_name,omitempty"`
}

// UserFilter narrows user listings
type UserFilter struct {
	Search string
	Role   Role
	Page   Page
}
