package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

// AuditHandler exposes the audit trail to administrators
type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	result, err := h.auditService.List(c.Request.Context(), id, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", result)
}
