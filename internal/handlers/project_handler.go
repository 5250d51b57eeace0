package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

// ProjectHandler handles tenant projects
type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ProjectRequest is the body of create and update. Update treats absent fields as unchanged.
type ProjectRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.CreateProjectInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	project, err := h.projectService.Create(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Project created successfully", project)
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	result, err := h.projectService.List(c.Request.Context(), id, models.ProjectFilter{
		Status: models.ProjectStatus(c.Query("status")),
		Search: c.Query("search"),
		Page:   pageFromQuery(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id", "Project")
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), id, projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id", "Project")
	if !ok {
		return
	}
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Project updated successfully", project)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id", "Project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id, projectID); err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Project deleted successfully", nil)
}
