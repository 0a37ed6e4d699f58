package handlers

import (
	"errors"
	"net/http"

	"social-lens-go/pkg/models"
	"social-lens-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StartScrape launches an asynchronous scrape run for a profile
func StartScrape(service *services.ScrapeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, err := service.StartScrape(c.Request.Context(), userID, req)
		if err != nil {
			switch {
			case err.Error() == "profile not found":
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				// Launch failures against the scraping service
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
