package handlers

import (
	"net/http"

	"social-lens-go/pkg/models"
	"social-lens-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListProfiles lists all tracked profiles for the authenticated user
func ListProfiles(service *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		profiles, err := service.ListProfiles(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, profiles)
	}
}

// RegisterProfile creates (or returns) the profile for a platform handle
func RegisterProfile(service *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		var create models.ProfileCreate
		if err := c.ShouldBindJSON(&create); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !create.Platform.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "platform must be instagram or linkedin"})
			return
		}

		profile, err := service.RegisterProfile(c.Request.Context(), userID, create)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, profile)
	}
}

// GetProfile retrieves a profile with its current data snapshot
func GetProfile(service *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		profileID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile ID"})
			return
		}

		result, err := service.GetProfileWithData(c.Request.Context(), profileID, userID)
		if err != nil {
			if err.Error() == "profile not found" {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// GetProfileStatus returns the scrape lifecycle state for client polling
func GetProfileStatus(service *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		profileID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile ID"})
			return
		}

		status, err := service.GetProfileStatus(c.Request.Context(), profileID, userID)
		if err != nil {
			if err.Error() == "profile not found" {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, status)
	}
}

// DeleteProfile removes a profile and its dependent records
func DeleteProfile(service *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		profileID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile ID"})
			return
		}

		if err := service.DeleteProfile(c.Request.Context(), profileID, userID); err != nil {
			if err.Error() == "profile not found" {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "profile deleted"})
	}
}
