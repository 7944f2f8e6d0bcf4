package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/healthsys/clinic-api/internal/bootstrap"
)

// EnsureReady runs the initialization gate before every request. After
// warm-up this is a single atomic load.
func EnsureReady(init *bootstrap.Initializer) gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = init.EnsureReady(c.Request.Context())
		c.Next()
	}
}
