package middleware

import (
	"crypto/subtle"
	"net/http"

	"ppv-gate/pkg/config"
	"ppv-gate/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuth guards the operator endpoints with the X-Admin-Token header.
// With no credential configured at all, every request is rejected; an
// unprotected admin surface must never come up by accident.
func AdminAuth(cfg *config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Token == "" && cfg.TokenHash == "" {
			logger.Warn("admin request rejected: no admin credential configured")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access disabled"})
			return
		}

		presented := c.GetHeader("X-Admin-Token")
		if presented == "" || !credentialMatches(cfg, presented) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// credentialMatches checks the presented token against the bcrypt hash when
// one is configured, falling back to a constant-time comparison with the
// plaintext credential.
func credentialMatches(cfg *config.AdminConfig, presented string) bool {
	if cfg.TokenHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(cfg.TokenHash), []byte(presented))
		return err == nil
	}

	return subtle.ConstantTimeCompare([]byte(cfg.Token), []byte(presented)) == 1
}
