package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/metrics"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

// AuthMiddleware turns bearer tokens into a verified identity and gates routes by role
type AuthMiddleware struct {
	tokens *services.TokenService
	logger *logrus.Entry
}

func NewAuthMiddleware(tokens *services.TokenService, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger.WithField("component", "auth_middleware")}
}

// Authenticate requires a valid token and stores the identity on the context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			metrics.ObserveTokenRejected("missing")
			abort(c, http.StatusUnauthorized, "Authorization token required")
			return
		}

		identity, err := m.tokens.Authenticate(token)
		if err != nil {
			reason := "malformed"
			if errors.Is(err, services.ErrTokenExpired) {
				reason = "expired"
			}
			metrics.ObserveTokenRejected(reason)
			m.logger.WithFields(logrus.Fields{
				"reason":     reason,
				"request_id": GetRequestID(c),
			}).WithError(err).Warn("Token rejected")
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RequireRoles admits only identities holding one of roles. It must run after Authenticate.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !identity.HasRole(roles...) {
			abort(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

// SuperAdminOnly admits only the super-admin
func SuperAdminOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleSuperAdmin)
}

// AdminOnly admits tenant admins and the super-admin
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleTenantAdmin, models.RoleSuperAdmin)
}

// GetIdentity returns the identity set by Authenticate
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
