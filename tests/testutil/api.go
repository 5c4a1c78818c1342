package testutil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/config"
	"github.com/skillhub/skillhub-api/controllers"
	"github.com/skillhub/skillhub-api/middleware"
	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/skillhub/skillhub-api/services"
	"github.com/skillhub/skillhub-api/utils"
)

// Mocks bundles the in-memory doubles wired in by SetupMocks
type Mocks struct {
	Users    *repository.MockUserRepository
	Services *repository.MockServiceRepository
	Reviews  *repository.MockReviewRepository
	Email    *services.MockEmailService
	SMS      *services.MockSMSService
	Images   *services.MockImageService
}

// SetupMocks replaces every global singleton with an in-memory mock and
// initializes the token and stats services against them
func SetupMocks() *Mocks {
	m := &Mocks{
		Users:    repository.NewMockUserRepository(),
		Services: repository.NewMockServiceRepository(),
		Reviews:  repository.NewMockReviewRepository(),
		Email:    services.NewMockEmailService(),
		SMS:      services.NewMockSMSService(),
		Images:   services.NewMockImageService(),
	}
	m.Users.SetAsMockForTesting()
	m.Services.SetAsMockForTesting()
	m.Reviews.SetAsMockForTesting()
	m.Email.SetAsMockForTesting()
	m.SMS.SetAsMockForTesting()
	m.Images.SetAsMockForTesting()

	config.SetConfig(&config.Config{GoEnv: "test", JWTSecret: "suite-test-secret", JWTExpiresInHours: 1})
	services.InitTokenService(config.GetConfig())
	services.InitStatsService(m.Reviews, m.Services)

	return m
}

// APIRouter builds the full v1 route table against the wired singletons,
// mirroring the production router without the database endpoints
func APIRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  utils.StatusSuccess,
				"message": "SkillHub API is running",
			})
		})

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

			svc.POST("", middleware.EnsureValidToken(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.CreateService)
			svc.POST("/images", middleware.EnsureValidToken(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.UploadServiceImage)
			svc.PATCH("/:id", middleware.EnsureValidToken(), controllers.UpdateService)
			svc.DELETE("/:id", middleware.EnsureValidToken(), controllers.DeleteService)

			svc.POST("/:id/reviews", middleware.EnsureValidToken(), controllers.CreateReview)
		}

		v1.DELETE("/reviews/:id", middleware.EnsureValidToken(), controllers.DeleteReview)

		v1.GET("/images/*key", controllers.GetImageURL)
	}

	return router
}

// IssueToken signs an access token for the given user with the wired
// token service
func IssueToken(user *models.User) (string, error) {
	return services.GetTokenService().IssueToken(user)
}
