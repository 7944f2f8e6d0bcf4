package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthsys/clinic-api/internal/rbac"
	"github.com/healthsys/clinic-api/internal/service"
)

// RequirePermission enforces the access-control gate for one route. It
// composes after Authenticate: a missing actor is a 401, an actor whose
// role lacks the permission is a 403, and every denial is audited.
func RequirePermission(authorizer *rbac.Authorizer, auditSvc *service.AuditService, perm rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ActorClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if authorizer.AuthorizeActor(claims, perm) != rbac.Allowed {
			auditSvc.LogAsync(c.Request.Context(), service.AuditEntry{
				UserID:       claims.UserID,
				UserRole:     string(claims.Role),
				Action:       "deny",
				ResourceType: "route",
				ResourceID:   c.FullPath(),
				Permission:   string(perm),
				IPAddress:    c.ClientIP(),
			})
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		c.Next()
	}
}
