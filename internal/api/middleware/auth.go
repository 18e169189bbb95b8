package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopmirror/storesync/internal/config"
)

const userIDKey = "user_id"

// Auth resolves the calling merchant from the Authorization header and,
// when a service API key hash is configured, verifies the X-API-Key header
// against it. The dashboard sends an opaque per-merchant token; the core
// only ever uses it as a scoping key.
func Auth(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.API.KeyHash != "" {
			apiKey := c.GetHeader("X-API-Key")
			if apiKey == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
				c.Abort()
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(cfg.API.KeyHash), []byte(apiKey)); err != nil {
				logger.Warn("invalid API key", zap.String("path", c.Request.URL.Path))
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
				c.Abort()
				return
			}
		}

		userID := strings.TrimSpace(c.GetHeader("Authorization"))
		userID = strings.TrimPrefix(userID, "Bearer ")
		if userID == "" {
			userID = "demo-user"
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the merchant identifier resolved by Auth
func GetUserID(c *gin.Context) (string, bool) {
	userID, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
