package api

import (
	"social-lens-go/pkg/api/handlers"
	"social-lens-go/pkg/api/middleware"
	"social-lens-go/pkg/apify"
	"social-lens-go/pkg/config"
	"social-lens-go/pkg/db"
	"social-lens-go/pkg/llm"
	"social-lens-go/pkg/models"
	"social-lens-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func NewRouter(database *db.DB, cfg *config.Config, model llm.LLM, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	// Initialize services
	actorClient := apify.NewClient(cfg.Apify.BaseURL, cfg.Apify.Token, logger)
	actorConfigs := map[models.Platform]apify.ActorConfig{
		models.PlatformInstagram: {
			ActorID:      cfg.Apify.InstagramActor,
			ResultsLimit: cfg.Apify.ResultsLimit,
		},
		models.PlatformLinkedIn: {
			ActorID:       cfg.Apify.LinkedInActor,
			SessionCookie: cfg.Apify.LinkedInCookie,
		},
	}

	scrapeService := services.NewScrapeService(database, actorClient, actorConfigs, cfg.Apify.WebhookBaseURL, logger)
	profileService := services.NewProfileService(database)
	chatService := services.NewChatService(database, model, logger)

	// Middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler(logger))

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Webhooks: called by the external scrape infrastructure, no session
		v1.POST("/webhooks/apify", handlers.ApifyWebhook(scrapeService))

		// Image proxy: read-only relay, consumed directly by <img> tags
		v1.GET("/images/proxy", handlers.ProxyImage(cfg.Images.AllowedHosts))

		// Profiles
		profiles := v1.Group("/profiles")
		profiles.Use(middleware.RequireAuth(database, logger))
		{
			profiles.GET("", handlers.ListProfiles(profileService))
			profiles.POST("", handlers.RegisterProfile(profileService))
			profiles.GET("/:id", handlers.GetProfile(profileService))
			profiles.GET("/:id/status", handlers.GetProfileStatus(profileService))
			profiles.DELETE("/:id", handlers.DeleteProfile(profileService))
			profiles.POST("/:id/chat", handlers.Chat(chatService))
			profiles.GET("/:id/conversations", handlers.ListConversations(database))
		}

		// Scrape launch
		scrape := v1.Group("/scrape")
		scrape.Use(middleware.RequireAuth(database, logger))
		{
			scrape.POST("", handlers.StartScrape(scrapeService))
		}

		// Conversations
		conversations := v1.Group("/conversations")
		conversations.Use(middleware.RequireAuth(database, logger))
		{
			conversations.POST("", handlers.CreateConversation(database))
			conversations.GET("/:id/messages", handlers.ListMessages(database))
		}

		// Users
		users := v1.Group("/users")
		{
			users.POST("", handlers.CreateUser(database))
			users.GET("/me", middleware.RequireAuth(database, logger), handlers.GetCurrentUser(database))
		}
	}

	return router
}
