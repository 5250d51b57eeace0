package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantStatus is the lifecycle state of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusTrial     TenantStatus = "trial"
)

// Valid reports whether s is a known tenant status
func (s TenantStatus) Valid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusTrial:
		return true
	}
	return false
}

// SubscriptionPlan is the billing tier of a tenant
type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// PlanLimits caps the number of users and projects a tenant may own
type PlanLimits struct {
	MaxUsers    int
	MaxProjects int
}

var planLimits = map[SubscriptionPlan]PlanLimits{
	PlanFree:       {MaxUsers: 5, MaxProjects: 3},
	PlanPro:        {MaxUsers: 25, MaxProjects: 15},
	PlanEnterprise: {MaxUsers: 100, MaxProjects: 50},
}

// Valid reports whether p is a known plan
func (p SubscriptionPlan) Valid() bool {
	_, ok := planLimits[p]
	return ok
}

// Limits returns the caps for the plan, falling back to the free tier.
func (p SubscriptionPlan) Limits() PlanLimits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanFree]
}

// Tenant is an isolated organization. Every business row references one.
type Tenant struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Subdomain        string           `gorm:"size:63;not null;uniqueIndex" json:"subdomain"`
	Status           TenantStatus     `gorm:"size:20;not null;default:active" json:"status"`
	SubscriptionPlan SubscriptionPlan `gorm:"size:20;not null;default:free" json:"subscription_plan"`
	MaxUsers         int              `gorm:"not null" json:"max_users"`
	MaxProjects      int              `gorm:"not null" json:"max_projects"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate assigns an id and plan defaults
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	t.applyDefaults()
	return nil
}

func (t *Tenant) applyDefaults() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TenantStatusActive
	}
	if t.SubscriptionPlan == "" {
		t.SubscriptionPlan = PlanFree
	}
	limits := t.SubscriptionPlan.Limits()
	if t.MaxUsers == 0 {
		t.MaxUsers = limits.MaxUsers
	}
	if t.MaxProjects == 0 {
		t.MaxProjects = limits.MaxProjects
	}
}

// PrepareForInsert fills the fields the database hook would set. Used by stores that bypass gorm.
func (t *Tenant) PrepareForInsert(now time.Time) {
	t.applyDefaults()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// TenantStats summarizes what a tenant owns
type TenantStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalProjects int64 `json:"total_projects"`
	TotalTasks    int64 `json:"total_tasks"`
}

// TenantFilter narrows tenant listings
type TenantFilter struct {
	Plan   SubscriptionPlan
	Status TenantStatus
	Page   Page
}
