package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

// AuthHandler handles registration, login and the caller's own profile
type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest bootstraps a tenant with its first admin
type RegisterRequest struct {
	TenantName    string `json:"tenantName" binding:"required"`
	Subdomain     string `json:"subdomain" binding:"required"`
	AdminEmail    string `json:"adminEmail" binding:"required"`
	AdminPassword string `json:"adminPassword" binding:"required"`
	AdminFullName string `json:"adminFullName" binding:"required"`
}

// Register creates a tenant and its admin, returning a token for the admin
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		TenantName:    req.TenantName,
		Subdomain:     req.Subdomain,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminFullName: req.AdminFullName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Tenant registered successfully", result)
}

// LoginRequest is the login body. tenantSubdomain may be omitted for the super-admin.
type LoginRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	TenantSubdomain string `json:"tenantSubdomain"`
}

// Login verifies credentials within a tenant and issues a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:           req.Email,
		Password:        req.Password,
		TenantSubdomain: req.TenantSubdomain,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", result)
}

// Me returns the caller's profile and tenant
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	result, err := h.authService.Me(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", result)
}

// Logout records the logout. The client discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	h.authService.Logout(c.Request.Context(), id)
	SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}
