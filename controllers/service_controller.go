package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/middleware"
	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/query"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/skillhub/skillhub-api/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateServiceRequest represents the request body for creating a service
type CreateServiceRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       float64  `json:"price" binding:"omitempty,gte=0"`
	Tags        []string `json:"tags" binding:"omitempty"`
	Images      []string `json:"images" binding:"omitempty"`
}

// UpdateServiceRequest represents the request body for updating a service.
// Pointer fields distinguish "absent" from zero values.
type UpdateServiceRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Tags        *[]string `json:"tags"`
	Images      *[]string `json:"images"`
}

// ListServices handles GET /api/v1/services - filtered, shaped listing
func ListServices(c *gin.Context) {
	params := c.Request.URL.Query()
	filter := query.ParseFilter(params)
	shape := query.ParseShape(params)

	services, err := repository.GetServiceRepository().Find(c.Request.Context(), filter, shape)
	if err != nil {
		abortWithError(c, err)
		return
	}

	utils.RespondList(c, http.StatusOK, len(services), gin.H{"services": services})
}

// GetService handles GET /api/v1/services/:id
func GetService(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	service, err := repository.GetServiceRepository().FindByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			abortWithError(c, utils.NotFound("No service found with that ID"))
			return
		}
		abortWithError(c, err)
		return
	}

	utils.RespondData(c, http.StatusOK, gin.H{"service": service})
}

// CreateService handles POST /api/v1/services - providers only
func CreateService(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Invalid request data: "+err.Error()))
		return
	}
	if req.Price < 0 {
		abortWithError(c, utils.BadRequest("Price must not be negative"))
		return
	}

	tags, ok := models.NormalizeTags(req.Tags)
	if !ok {
		abortWithError(c, utils.BadRequest("Tags may only contain letters, digits and spaces"))
		return
	}

	service := models.Service{
		Provider:    user.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Tags:        tags,
		Images:      req.Images,
	}

	if err := repository.GetServiceRepository().Create(c.Request.Context(), &service); err != nil {
		abortWithError(c, err)
		return
	}

	utils.RespondData(c, http.StatusCreated, gin.H{"service": service})
}

// UpdateService handles PATCH /api/v1/services/:id - owning provider only
func UpdateService(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	repo := repository.GetServiceRepository()
	service, err := repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			abortWithError(c, utils.NotFound("No service found with that ID"))
			return
		}
		abortWithError(c, err)
		return
	}

	if service.Provider != user.ID {
		abortWithError(c, utils.Forbidden("You can only update your own services"))
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Invalid request data: "+err.Error()))
		return
	}

	if req.Title != nil {
		service.Title = *req.Title
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			abortWithError(c, utils.BadRequest("Price must not be negative"))
			return
		}
		service.Price = *req.Price
	}
	if req.Tags != nil {
		tags, ok := models.NormalizeTags(*req.Tags)
		if !ok {
			abortWithError(c, utils.BadRequest("Tags may only contain letters, digits and spaces"))
			return
		}
		service.Tags = tags
	}
	if req.Images != nil {
		service.Images = *req.Images
	}

	if err := repo.Update(c.Request.Context(), service); err != nil {
		abortWithError(c, err)
		return
	}

	utils.RespondData(c, http.StatusOK, gin.H{"service": service})
}

// DeleteService handles DELETE /api/v1/services/:id - owning provider or
// admin. The service's reviews are deleted with it rather than left
// orphaned.
func DeleteService(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	repo := repository.GetServiceRepository()
	service, err := repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			abortWithError(c, utils.NotFound("No service found with that ID"))
			return
		}
		abortWithError(c, err)
		return
	}

	if service.Provider != user.ID && user.Role != models.RoleAdmin {
		abortWithError(c, utils.Forbidden("You can only delete your own services"))
		return
	}

	if err := repository.GetReviewRepository().DeleteByService(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	if err := repo.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseObjectID reads a path parameter as an ObjectID, aborting with a
// 400 when it is malformed
func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		abortWithError(c, utils.BadRequest("Invalid ID"))
		return primitive.NilObjectID, false
	}
	return id, true
}
