package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/config"
	"github.com/skillhub/skillhub-api/middleware"
	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/skillhub/skillhub-api/services"
	"github.com/stretchr/testify/require"
)

// testEnv bundles the mocks wired in for a controller test
type testEnv struct {
	Users    *repository.MockUserRepository
	Services *repository.MockServiceRepository
	Reviews  *repository.MockReviewRepository
	Email    *services.MockEmailService
	SMS      *services.MockSMSService
	Images   *services.MockImageService
}

// setupTestEnv swaps every global singleton for an in-memory mock
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		Users:    repository.NewMockUserRepository(),
		Services: repository.NewMockServiceRepository(),
		Reviews:  repository.NewMockReviewRepository(),
		Email:    services.NewMockEmailService(),
		SMS:      services.NewMockSMSService(),
		Images:   services.NewMockImageService(),
	}
	env.Users.SetAsMockForTesting()
	env.Services.SetAsMockForTesting()
	env.Reviews.SetAsMockForTesting()
	env.Email.SetAsMockForTesting()
	env.SMS.SetAsMockForTesting()
	env.Images.SetAsMockForTesting()

	config.SetConfig(&config.Config{GoEnv: "test", JWTSecret: "controller-test-secret", JWTExpiresInHours: 1})
	services.InitTokenService(config.GetConfig())
	services.InitStatsService(env.Reviews, env.Services)

	return env
}

// setupTestRouter creates a router with the centralized error handler,
// matching the production middleware chain
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	return router
}

// mockAuthMiddleware simulates EnsureValidToken for testing: it stores the
// given user in the context exactly as the real middleware does
func mockAuthMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, user.ID)
		c.Set(middleware.ContextUserKey, user)
		c.Next()
	}
}

// createTestUser persists a user through the mock repository
func createTestUser(t *testing.T, env *testEnv, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: "$2a$10$notarealhashbutlongenoughtostore1234567890abcdefgh",
		Role:     role,
	}
	require.NoError(t, env.Users.Create(t.Context(), user))
	return user
}

// jsonBody marshals a request payload
func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

// decodeBody unmarshals a recorded JSON response
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
