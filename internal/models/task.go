package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus is the progress state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known task status
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority orders work within a project
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work. TenantID mirrors the owning project's tenant.
type Task struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"project_id"`
	TenantID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"size:20;not null;default:todo" json:"status"`
	Priority    TaskPriority `gorm:"size:20;not null;default:medium" json:"priority"`
	AssignedTo  *uuid.UUID   `gorm:"type:uuid" json:"assigned_to"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedBy   uuid.UUID    `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// BeforeCreate assigns an id
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// PrepareForInsert fills the fields the database hook would set
func (t *Task) PrepareForInsert(now time.Time) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// TaskView is a task row with its tenant and project names
type TaskView struct {
	Task         `gorm:"embedded"`
	TenantName   string `json:"tenant_name,omitempty"`
	ProjectName  string `json:"project_name,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
}

// TaskFilter narrows task listings
type TaskFilter struct {
	ProjectID  *uuid.UUID
	Status     TaskStatus
	Priority   TaskPriority
	AssignedTo *uuid.UUID
	Page       Page
}
