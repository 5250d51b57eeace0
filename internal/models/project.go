package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusArchived  ProjectStatus = "archived"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Valid reports whether s is a known project status
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusArchived, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project belongs to exactly one tenant
type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"size:20;not null;default:active" json:"status"`
	CreatedBy   uuid.UUID     `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns an id
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PrepareForInsert fills the fields the database hook would set
func (p *Project) PrepareForInsert(now time.Time) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectStatusActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// ProjectView is a project row with its tenant name and task counters
type ProjectView struct {
	Project            `gorm:"embedded"`
	TenantName         string `json:"tenant_name,omitempty"`
	CreatorName        string `json:"creator_name,omitempty"`
	TaskCount          int64  `json:"task_count"`
	CompletedTaskCount int64  `json:"completed_task_count"`
}

// ProjectFilter narrows project listings
type ProjectFilter struct {
	Status ProjectStatus
	Search string
	Page   Page
}
