package middleware

import (
	"context"
	"net/http"
	"strings"

	"social-lens-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIKeyResolver maps an API key to the account it belongs to. *db.DB
// satisfies it.
type APIKeyResolver interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
}

// RequireAuth resolves the caller's API key to a user and stashes both the
// user and its id in the request context. The key travels either as
// "Authorization: Bearer <key>" or, for dashboard fetches that cannot set
// arbitrary auth schemes, as "X-API-Key".
func RequireAuth(database APIKeyResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := extractAPIKey(c)
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			c.Abort()
			return
		}

		user, err := database.GetUserByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Warn("Rejected request with unknown API key")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader("X-API-Key"))
}
