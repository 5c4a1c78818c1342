package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func createTestService(t *testing.T, env *testEnv, provider *models.User, title string) *models.Service {
	t.Helper()

	service := &models.Service{
		Provider:    provider.ID,
		Title:       title,
		Description: "A test listing",
		Price:       50,
		Tags:        []string{"cleaning"},
	}
	require.NoError(t, env.Services.Create(t.Context(), service))
	return service
}

func TestListServices(t *testing.T) {
	env := setupTestEnv(t)
	provider := createTestUser(t, env, "provider@example.com", "provider")
	createTestService(t, env, provider, "House Cleaning")
	createTestService(t, env, provider, "Garden Work")

	router := setupTestRouter()
	router.GET("/api/v1/services", ListServices)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/services?price[gte]=10&sort=-price&limit=50", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["results"])
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["services"], 2)
}

func TestListServicesPagination(t *testing.T) {
	env := setupTestEnv(t)
	provider := createTestUser(t, env, "provider@example.com", "provider")
	for i := 0; i < 5; i++ {
		createTestService(t, env, provider, "Listing")
	}

	router := setupTestRouter()
	router.GET("/api/v1/services", ListServices)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/services?page=2&limit=3", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["results"], "Second page holds the remaining two listings")
}

func TestGetService(t *testing.T) {
	env := setupTestEnv(t)
	provider := createTestUser(t, env, "provider@example.com", "provider")
	service := createTestService(t, env, provider, "House Cleaning")

	router := setupTestRouter()
	router.GET("/api/v1/services/:id", GetService)

	t.Run("Get existing service", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/services/"+service.ID.Hex(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		got := data["service"].(map[string]interface{})
		assert.Equal(t, "House Cleaning", got["title"])
	})

	t.Run("Unknown ID returns 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/services/"+primitive.NewObjectID().Hex(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Malformed ID returns 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/services/not-an-id", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateService(t *testing.T) {
	env := setupTestEnv(t)
	provider := createTestUser(t, env, "provider@example.com", "provider")

	router := setupTestRouter()
	router.POST("/api/v1/services", mockAuthMiddleware(provider), CreateService)

	tests := []struct {
		name           string
		payload        gin.H
		expectedStatus int
	}{
		{
			name: "Create service successfully",
			payload: gin.H{
				"title": "Dog Walking", "description": "Daily walks",
				"price": 25.5, "tags": []string{" Dog Care ", "dog care", "Pets"},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Reject missing title",
			payload:        gin.H{"description": "Daily walks"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Reject invalid tag characters",
			payload: gin.H{
				"title": "Dog Walking", "description": "Daily walks",
				"tags": []string{"dogs!"},
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/v1/services", jsonBody(t, tt.payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				data := decodeBody(t, w)["data"].(map[string]interface{})
				service := data["service"].(map[string]interface{})
				assert.Equal(t, provider.ID.Hex(), service["provider"])
				// Tags are trimmed, lowercased and deduplicated
				assert.ElementsMatch(t, []interface{}{"dog care", "pets"}, service["tags"])
				assert.Equal(t, float64(0), service["averageRating"])
				assert.Equal(t, float64(0), service["totalReviews"])
			}
		})
	}
}

func TestUpdateService(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com", "provider")
	other := createTestUser(t, env, "other@example.com", "provider")
	service := createTestService(t, env, owner, "House Cleaning")

	t.Run("Owner can update", func(t *testing.T) {
		router := setupTestRouter()
		router.PATCH("/api/v1/services/:id", mockAuthMiddleware(owner), UpdateService)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/v1/services/"+service.ID.Hex(), jsonBody(t, gin.H{
			"price": 75.0,
		}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		updated, err := env.Services.FindByID(t.Context(), service.ID)
		require.NoError(t, err)
		assert.Equal(t, 75.0, updated.Price)
		assert.Equal(t, "House Cleaning", updated.Title, "Absent fields are untouched")
	})

	t.Run("Non-owner gets 403", func(t *testing.T) {
		router := setupTestRouter()
		router.PATCH("/api/v1/services/:id", mockAuthMiddleware(other), UpdateService)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/v1/services/"+service.ID.Hex(), jsonBody(t, gin.H{
			"price": 1.0,
		}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Negative price rejected", func(t *testing.T) {
		router := setupTestRouter()
		router.PATCH("/api/v1/services/:id", mockAuthMiddleware(owner), UpdateService)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/v1/services/"+service.ID.Hex(), jsonBody(t, gin.H{
			"price": -5.0,
		}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteService(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com", "provider")
	other := createTestUser(t, env, "other@example.com", "provider")
	admin := createTestUser(t, env, "admin@example.com", "admin")
	reviewer := createTestUser(t, env, "reviewer@example.com", "user")

	t.Run("Owner delete cascades to reviews", func(t *testing.T) {
		service := createTestService(t, env, owner, "House Cleaning")
		review := &models.Review{Service: service.ID, User: reviewer.ID, Rating: 4, Comment: "Great service all round"}
		require.NoError(t, env.Reviews.Create(t.Context(), review))

		router := setupTestRouter()
		router.DELETE("/api/v1/services/:id", mockAuthMiddleware(owner), DeleteService)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/services/"+service.ID.Hex(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		_, err := env.Services.FindByID(t.Context(), service.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = env.Reviews.FindByID(t.Context(), review.ID)
		assert.Error(t, err, "Reviews are deleted with their service")
	})

	t.Run("Non-owner gets 403", func(t *testing.T) {
		service := createTestService(t, env, owner, "Garden Work")

		router := setupTestRouter()
		router.DELETE("/api/v1/services/:id", mockAuthMiddleware(other), DeleteService)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/services/"+service.ID.Hex(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin can delete any service", func(t *testing.T) {
		service := createTestService(t, env, owner, "Window Washing")

		router := setupTestRouter()
		router.DELETE("/api/v1/services/:id", mockAuthMiddleware(admin), DeleteService)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/services/"+service.ID.Hex(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
