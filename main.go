package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/config"
	"github.com/skillhub/skillhub-api/controllers"
	"github.com/skillhub/skillhub-api/middleware"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/skillhub/skillhub-api/services"
	"github.com/skillhub/skillhub-api/utils"
)

func main() {
	// Basic logging
	log.Println("Starting SkillHub API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := config.DisconnectDatabase(); err != nil {
			log.Printf("Failed to disconnect from database: %v", err)
		}
	}()

	// Wire repositories and ensure indexes
	if err := repository.Init(config.GetDB()); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	log.Println("Repository indexes ensured successfully")

	// Initialize services
	services.InitTokenService(cfg)
	services.InitEmailService(cfg)
	services.InitSMSService(cfg)
	services.InitStatsService(repository.GetReviewRepository(), repository.GetServiceRepository())

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	// Initialize Gin router
	router := setupRouter()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures middleware and all API v1 routes
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		auth := v1.Group("/auth")
		{
			auth.POST("/signup", controllers.Signup)
			auth.POST("/login", controllers.Login)
			auth.GET("/verify-email/:token", controllers.VerifyEmail)
			auth.POST("/forgot-password", controllers.ForgotPassword)
			auth.PATCH("/reset-password/:token", controllers.ResetPassword)

			authed := auth.Group("", middleware.EnsureValidToken())
			{
				authed.POST("/send-phone-code", controllers.SendPhoneCode)
				authed.POST("/verify-phone", controllers.VerifyPhone)
				authed.PATCH("/update-password", controllers.UpdatePassword)
			}
		}

		users := v1.Group("/users", middleware.EnsureValidToken())
		{
			users.GET("/me", controllers.GetMe)
			users.PATCH("/me", controllers.UpdateMe)
			users.POST("/me/photo", controllers.UploadProfilePhoto)
		}

		svc := v1.Group("/services")
		{
			svc.GET("", controllers.ListServices)
			svc.GET("/:id", controllers.GetService)
			svc.GET("/:id/reviews", controllers.ListServiceReviews)

			svc.POST("", middleware.EnsureValidToken(), middleware.RequireRole("provider", "admin"), controllers.CreateService)
			svc.POST("/images", middleware.EnsureValidToken(), middleware.RequireRole("provider", "admin"), controllers.UploadServiceImage)
			svc.PATCH("/:id", middleware.EnsureValidToken(), controllers.UpdateService)
			svc.DELETE("/:id", middleware.EnsureValidToken(), controllers.DeleteService)

			svc.POST("/:id/reviews", middleware.EnsureValidToken(), controllers.CreateReview)
		}

		v1.DELETE("/reviews/:id", middleware.EnsureValidToken(), controllers.DeleteReview)

		v1.GET("/images/*key", controllers.GetImageURL)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  utils.StatusSuccess,
		"message": "SkillHub API is running",
	})
}

// databaseStatus checks database connectivity and returns collection information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  utils.StatusError,
			"message": "Database not connected",
		})
		return
	}

	// Ping via the client to verify the connection is alive
	if err := db.Client().Ping(c.Request.Context(), nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  utils.StatusError,
			"message": "Database connection failed",
		})
		return
	}

	collections, err := db.ListCollectionNames(c.Request.Context(), map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  utils.StatusError,
			"message": "Failed to list collections",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      utils.StatusSuccess,
		"message":     "Database connected",
		"collections": collections,
	})
}
