package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction represents the type of action performed
type AuditAction string

const (
	ActionLogin  AuditAction = "LOGIN"
	ActionLogout AuditAction = "LOGOUT"
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
)

// Entity types recorded in the audit trail
const (
	EntityTenant  = "tenant"
	EntityUser    = "user"
	EntityProject = "project"
	EntityTask    = "task"
)

// AuditLog is an append-only record of a state-changing or security-relevant action
type AuditLog struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   *uuid.UUID  `gorm:"type:uuid;index" json:"tenant_id"`
	UserID     *uuid.UUID  `gorm:"type:uuid" json:"user_id"`
	Action     AuditAction `gorm:"size:50;not null" json:"action"`
	EntityType string      `gorm:"size:50" json:"entity_type"`
	EntityID   *uuid.UUID  `gorm:"type:uuid" json:"entity_id"`
	IPAddress  string      `gorm:"size:64" json:"ip_address"`
	RequestID  string      `gorm:"size:64" json:"request_id,omitempty"`
	CreatedAt  time.Time   `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate assigns an id and timestamp
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	a.PrepareForInsert(time.Now())
	return nil
}

// PrepareForInsert fills the fields the database hook would set
func (a *AuditLog) PrepareForInsert(now time.Time) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
}
