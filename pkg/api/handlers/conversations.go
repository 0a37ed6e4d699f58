package handlers

import (
	"net/http"

	"social-lens-go/pkg/db"
	"social-lens-go/pkg/models"
	"social-lens-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListConversations lists a profile's conversations
func ListConversations(database *db.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		profileID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile ID"})
			return
		}

		conversations, err := database.ListConversationsByProfile(c.Request.Context(), profileID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, conversations)
	}
}

// CreateConversation starts a new conversation for a profile
func CreateConversation(database *db.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		var create models.ConversationCreate
		if err := c.ShouldBindJSON(&create); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		conv, err := database.CreateConversation(c.Request.Context(), userID, create)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, conv)
	}
}

// ListMessages returns a conversation's messages in order
func ListMessages(database *db.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		conversationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
			return
		}

		// Ownership check before exposing messages
		if _, err := database.GetConversation(c.Request.Context(), conversationID, userID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		messages, err := database.ListMessages(c.Request.Context(), conversationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, messages)
	}
}

// Chat answers a question about a profile using its scraped data as context
func Chat(service *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		profileID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile ID"})
			return
		}

		var req services.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		reply, err := service.Chat(c.Request.Context(), profileID, userID, req)
		if err != nil {
			if err.Error() == "profile not found" || err.Error() == "conversation not found" {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, reply)
	}
}
