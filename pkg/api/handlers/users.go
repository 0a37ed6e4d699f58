package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"social-lens-go/pkg/db"

	"github.com/gin-gonic/gin"
)

// CreateUser registers an account and mints its API key. The key is returned
// exactly once, in this response; only its value is ever sent back to the
// server afterwards.
func CreateUser(database *db.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		apiKey, err := generateAPIKey()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate API key"})
			return
		}

		user, err := database.CreateUser(c.Request.Context(), email, apiKey)
		if err != nil {
			if err.Error() == "email already registered" {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

// GetCurrentUser returns the account the presented API key resolved to
func GetCurrentUser(database *db.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// generateAPIKey mints an "sl_"-prefixed random key. The prefix makes leaked
// keys recognizable in logs and secret scanners.
func generateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "sl_" + hex.EncodeToString(bytes), nil
}
