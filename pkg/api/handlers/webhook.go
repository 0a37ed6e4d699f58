package handlers

import (
	"io"
	"net/http"

	"social-lens-go/pkg/apify"
	"social-lens-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApifyWebhook is the single endpoint the external scrape infrastructure
// calls back into when an actor run reaches a terminal state. It carries no
// user session; the profile id travels in the query string of a URL that was
// only ever handed to the actor at launch time.
func ApifyWebhook(service *services.ScrapeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		// No profile state is touched unless the body parses
		outcome, err := apify.ParseRunOutcome(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		profileID, err := uuid.Parse(c.Query("profileId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing profileId"})
			return
		}

		message, err := service.HandleRunOutcome(c.Request.Context(), profileID, outcome)
		if err != nil {
			if err.Error() == "profile not found" {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
	}
}
