package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

// TenantHandler handles tenant administration. Every route is super-admin only.
type TenantHandler struct {
	tenantService *services.TenantService
}

func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// ListTenants returns a page of tenants, optionally filtered by plan and status
func (h *TenantHandler) ListTenants(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	result, err := h.tenantService.List(c.Request.Context(), id, models.TenantFilter{
		Plan:   models.SubscriptionPlan(c.Query("plan")),
		Status: models.TenantStatus(c.Query("status")),
		Page:   pageFromQuery(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", result)
}

// GetTenant returns a tenant with usage stats
func (h *TenantHandler) GetTenant(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	tenantID, ok := idParam(c, "id", "Tenant")
	if !ok {
		return
	}

	result, err := h.tenantService.Get(c.Request.Context(), id, tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateTenantRequest carries optional tenant changes
type UpdateTenantRequest struct {
	Name             *string                  `json:"name"`
	Status           *models.TenantStatus     `json:"status"`
	SubscriptionPlan *models.SubscriptionPlan `json:"subscriptionPlan"`
	MaxUsers         *int                     `json:"maxUsers"`
	MaxProjects      *int                     `json:"maxProjects"`
}

// UpdateTenant changes name, status, plan or caps
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	tenantID, ok := idParam(c, "id", "Tenant")
	if !ok {
		return
	}
	var req UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), id, tenantID, services.UpdateTenantInput{
		Name:             req.Name,
		Status:           req.Status,
		SubscriptionPlan: req.SubscriptionPlan,
		MaxUsers:         req.MaxUsers,
		MaxProjects:      req.MaxProjects,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenant updated successfully", tenant)
}
