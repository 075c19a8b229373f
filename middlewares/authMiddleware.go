package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/calc_backend/auth"
	"bitbucket.org/mmdatafocus/calc_backend/config"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the authenticated user for every protected route.
// On any failure (missing header, bad signature, expired, revoked) the request is
// aborted with 401 before the handler runs.
func AuthMiddleware(settings config.Settings, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")

		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])

		validate, err := utils.JwtValidate(settings, token)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok || claim.ID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		// Fail closed: a blacklist read error must not let a revoked token through.
		revoked, err := blacklist.Contains(c.Request.Context(), claim.StandardClaims.Id)
		if err != nil || revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetUserIdInContext(c.Request.Context(), claim.ID)
		ctx = utils.SetUsernameInContext(ctx, claim.Username)
		ctx = utils.SetTokenInContext(ctx, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
