package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// ProjectService manages tenant projects
type ProjectService struct {
	store  repository.Store
	audit  AuditRecorder
	logger *logrus.Entry
}

func NewProjectService(store repository.Store, audit AuditRecorder, logger *logrus.Logger) *ProjectService {
	if audit == nil {
		audit = NopRecorder{}
	}
	return &ProjectService{store: store, audit: audit, logger: logger.WithField("component", "projects")}
}

// CreateProjectInput is a new project in the caller's tenant
type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
}

// Create adds a project, enforcing the plan's project cap under a tenant row lock
func (s *ProjectService) Create(ctx context.Context, identity models.Identity, in CreateProjectInput) (*models.Project, error) {
	tenantID, err := memberTenant(identity, "projects")
	if err != nil {
		return nil, err
	}
	if err := requireText("name", in.Name, 255); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.ProjectStatusActive
	}
	if !in.Status.Valid() {
		return nil, NewValidationError("status", "Status must be active, archived or completed")
	}

	project := &models.Project{
		TenantID:    tenantID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Status:      in.Status,
		CreatedBy:   identity.UserID(),
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := reserveSlot(ctx, tx, tenantID, ResourceProject); err != nil {
			return err
		}
		return tx.Projects().Create(ctx, project)
	})
	if err != nil {
		return nil, err
	}

	record(ctx, s.audit, &tenantID, identity.UserID(), models.ActionCreate, models.EntityProject, project.ID)
	return project, nil
}

// ProjectList is a page of projects
type ProjectList struct {
	Projects   []models.ProjectView `json:"projects"`
	Pagination models.Pagination    `json:"pagination"`
}

// List returns the projects visible to the caller with their task counters
func (s *ProjectService) List(ctx context.Context, identity models.Identity, filter models.ProjectFilter) (*ProjectList, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewValidationError("status", "Unknown project status")
	}
	filter.Page = filter.Page.Normalize(models.DefaultPageSize)

	projects, total, err := s.store.Projects().List(ctx, identity.Scope(), filter)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.ProjectView{}
	}
	return &ProjectList{Projects: projects, Pagination: models.NewPagination(filter.Page, total)}, nil
}

// Get returns one project visible to the caller
func (s *ProjectService) Get(ctx context.Context, identity models.Identity, id uuid.UUID) (*models.ProjectView, error) {
	project, err := s.store.Projects().GetView(ctx, identity.Scope(), id)
	if err != nil {
		return nil, notFound(err, "Project")
	}
	return project, nil
}

// UpdateProjectInput carries optional changes
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// Update changes a project of the caller's tenant
func (s *ProjectService) Update(ctx context.Context, identity models.Identity, id uuid.UUID, in UpdateProjectInput) (*models.Project, error) {
	if err := requireMutator(identity, "projects"); err != nil {
		return nil, err
	}

	project, err := s.store.Projects().GetByID(ctx, identity.Scope(), id)
	if err != nil {
		return nil, notFound(err, "Project")
	}

	if in.Name != nil {
		if err := requireText("name", *in.Name, 255); err != nil {
			return nil, err
		}
		project.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, NewValidationError("status", "Status must be active, archived or completed")
		}
		project.Status = *in.Status
	}

	if err := s.store.Projects().Update(ctx, project); err != nil {
		return nil, notFound(err, "Project")
	}

	record(ctx, s.audit, &project.TenantID, identity.UserID(), models.ActionUpdate, models.EntityProject, project.ID)
	return project, nil
}

// Delete removes a project of the caller's tenant together with its tasks
func (s *ProjectService) Delete(ctx context.Context, identity models.Identity, id uuid.UUID) error {
	if err := requireMutator(identity, "projects"); err != nil {
		return err
	}

	project, err := s.store.Projects().GetByID(ctx, identity.Scope(), id)
	if err != nil {
		return notFound(err, "Project")
	}
	if err := s.store.Projects().Delete(ctx, identity.Scope(), project.ID); err != nil {
		return notFound(err, "Project")
	}

	record(ctx, s.audit, &project.TenantID, identity.UserID(), models.ActionDelete, models.EntityProject, project.ID)
	s.logger.WithField("project_id", project.ID).Info("Project deleted")
	return nil
}
