package router

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"neuroscreen/internal/config"
)

// APIKeyRequired is the opaque authentication gate: it either lets the
// request through or short-circuits with 401. When a bcrypt hash is
// configured it takes precedence over the plaintext dev key.
func APIKeyRequired(cfg config.AuthConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APIKeyHash == "" && cfg.APIKey == "" {
			log.Error("API key gate enabled but no key configured, refusing request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		token := bearerToken(c)
		if token == "" || !keyMatches(cfg, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func keyMatches(cfg config.AuthConfig, token string) bool {
	if cfg.APIKeyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(cfg.APIKeyHash), []byte(token)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(cfg.APIKey), []byte(token)) == 1
}
