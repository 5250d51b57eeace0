package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

// TaskHandler handles tasks inside tenant projects
type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest is a new task
type CreateTaskRequest struct {
	ProjectID   uuid.UUID           `json:"projectId" binding:"required"`
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     nullableDate        `json:"dueDate"`
	AssignedTo  nullableUUID        `json:"assignedTo"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), id, services.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate.Value,
		AssignedTo:  req.AssignedTo.Value,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Task created successfully", task)
}

// taskFilter reads the shared task query filters
func taskFilter(c *gin.Context) (models.TaskFilter, bool) {
	filter := models.TaskFilter{
		Status:   models.TaskStatus(c.Query("status")),
		Priority: models.TaskPriority(c.Query("priority")),
		Page:     pageFromQuery(c),
	}
	projectID, ok := optionalUUID(c, "project_id")
	if !ok {
		return filter, false
	}
	filter.ProjectID = projectID
	assignee, ok := optionalUUID(c, "assignedTo")
	if !ok {
		return filter, false
	}
	filter.AssignedTo = assignee
	return filter, true
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	filter, ok := taskFilter(c)
	if !ok {
		return
	}

	result, err := h.taskService.List(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", result)
}

func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "projectId", "Project")
	if !ok {
		return
	}
	filter, ok := taskFilter(c)
	if !ok {
		return
	}

	result, err := h.taskService.ListByProject(c.Request.Context(), id, projectID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", result)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id", "Task")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", task)
}

// UpdateTaskRequest carries optional changes. An explicit null clears assignedTo or dueDate.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	AssignedTo  nullableUUID         `json:"assignedTo"`
	DueDate     nullableDate         `json:"dueDate"`
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id", "Task")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), id, taskID, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		AssignedTo:    req.AssignedTo.Value,
		ClearAssignee: req.AssignedTo.Set && req.AssignedTo.Value == nil,
		DueDate:       req.DueDate.Value,
		ClearDueDate:  req.DueDate.Set && req.DueDate.Value == nil,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Task updated successfully", task)
}

// UpdateTaskStatusRequest moves a task between states
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id", "Task")
	if !ok {
		return
	}
	var req UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), id, taskID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Task status updated successfully", task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id", "Task")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id, taskID); err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Task deleted successfully", nil)
}
