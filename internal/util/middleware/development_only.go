package middleware

import (
	"net/http"

	env_utils "journal-backend/internal/util/env"

	"github.com/gin-gonic/gin"
)

// DevelopmentOnlyMiddleware rejects every request unless the deployment
// is explicitly in development mode. Unknown or empty modes are rejected.
func DevelopmentOnlyMiddleware(getEnvMode func() env_utils.EnvMode) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !getEnvMode().IsDevelopment() {
			ctx.AbortWithStatusJSON(
				http.StatusForbidden,
				gin.H{"error": "this endpoint is only available in development mode"},
			)
			return
		}

		ctx.Next()
	}
}
