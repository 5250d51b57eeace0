package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

// UserHandler handles the accounts of a tenant
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is a new account in the caller's tenant
type CreateUserRequest struct {
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	FullName string      `json:"fullName" binding:"required"`
	Role     models.Role `json:"role"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.userService.Create(c.Request.Context(), id, services.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "User created successfully", profile)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	result, err := h.userService.List(c.Request.Context(), id, models.UserFilter{
		Search: c.Query("search"),
		Role:   models.Role(c.Query("role")),
		Page:   pageFromQuery(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", result)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "id", "User")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", user)
}

// UpdateUserRequest carries optional account changes
type UpdateUserRequest struct {
	FullName *string      `json:"fullName"`
	Role     *models.Role `json:"role"`
	Password *string      `json:"password"`
	IsActive *bool        `json:"isActive"`
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "id", "User")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, userID, services.UpdateUserInput{
		FullName: req.FullName,
		Role:     req.Role,
		Password: req.Password,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "id", "User")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}
