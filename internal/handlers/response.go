package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/middleware"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

var log = logrus.StandardLogger()

// SetLogger replaces the logger used for failed requests
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// ErrorResponse sends a standardized error response.
// Internal errors are logged but not exposed to clients.
func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	writeError(c, statusCode, message, err, nil)
}

func writeError(c *gin.Context, statusCode int, message string, err error, data interface{}) {
	requestID := middleware.GetRequestID(c)

	if err != nil {
		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"status":     statusCode,
			"path":       c.Request.URL.Path,
		}).WithError(err)
		if statusCode >= http.StatusInternalServerError {
			entry.Error(message)
		} else {
			entry.Debug(message)
		}
	}

	response := gin.H{
		"success":    false,
		"message":    message,
		"request_id": requestID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	if data != nil {
		response["data"] = data
	}
	if gin.Mode() == gin.DebugMode && err != nil {
		response["error_details"] = err.Error()
	}

	c.AbortWithStatusJSON(statusCode, response)
}

// SuccessResponse sends a standardized success response
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := gin.H{
		"success":    true,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	if data != nil {
		response["data"] = data
	}
	c.JSON(statusCode, response)
}

// ValidationErrorResponse sends a validation error response
func ValidationErrorResponse(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success":    false,
		"message":    "Validation failed",
		"errors":     fields,
		"request_id": middleware.GetRequestID(c),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// respondError maps a service error onto its status code and client message
func respondError(c *gin.Context, err error) {
	if verr, ok := services.IsValidationError(err); ok {
		ValidationErrorResponse(c, map[string]string{verr.Field: verr.Message})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	case errors.Is(err, services.ErrTenantNotFound):
		ErrorResponse(c, http.StatusNotFound, "Tenant not found", nil)
		return
	case errors.Is(err, services.ErrTenantSuspended):
		ErrorResponse(c, http.StatusForbidden, "Tenant is suspended", nil)
		return
	case services.IsUnauthenticated(err):
		ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token", nil)
		return
	}

	if nf, ok := services.IsNotFoundError(err); ok {
		ErrorResponse(c, http.StatusNotFound, nf.Error(), nil)
		return
	}
	if lim, ok := services.IsLimitExceededError(err); ok {
		writeError(c, http.StatusForbidden, lim.Error(), nil, gin.H{
			"resource": lim.Resource,
			"current":  lim.Current,
			"limit":    lim.Limit,
		})
		return
	}
	if sa, ok := services.IsSuperAdminCannotCreateError(err); ok {
		ErrorResponse(c, http.StatusForbidden, sa.Error(), nil)
		return
	}
	if fe, ok := services.IsForbiddenError(err); ok {
		ErrorResponse(c, http.StatusForbidden, fe.Message, nil)
		return
	}
	if ce, ok := services.IsConflictError(err); ok {
		ErrorResponse(c, http.StatusConflict, ce.Message, nil)
		return
	}

	ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
}
