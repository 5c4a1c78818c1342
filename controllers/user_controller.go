package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/middleware"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/skillhub/skillhub-api/services"
	"github.com/skillhub/skillhub-api/utils"
)

// UpdateMeRequest represents the request body for updating a user profile.
// Password and role changes go through their dedicated endpoints.
type UpdateMeRequest struct {
	Name  string `json:"name" binding:"omitempty"`
	Phone string `json:"phone" binding:"omitempty,e164"`
}

// GetMe handles GET /api/v1/users/me - returns the authenticated user
func GetMe(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	utils.RespondData(c, http.StatusOK, gin.H{"user": user})
}

// UpdateMe handles PATCH /api/v1/users/me - updates profile fields
func UpdateMe(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Invalid request data: "+err.Error()))
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" && req.Phone != user.Phone {
		// A new number must be verified again
		user.Phone = req.Phone
		user.PhoneVerified = false
	}

	if err := repository.GetUserRepository().Update(c.Request.Context(), user); err != nil {
		if repository.IsDuplicateKey(err) {
			abortWithError(c, utils.Conflict("An account with this phone already exists"))
			return
		}
		abortWithError(c, err)
		return
	}

	utils.RespondData(c, http.StatusOK, gin.H{"user": user})
}

// UploadProfilePhoto handles POST /api/v1/users/me/photo - uploads a PNG
// profile image to S3 and stores its key on the user
func UploadProfilePhoto(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		abortWithError(c, utils.BadRequest("Please attach a photo file"))
		return
	}

	imageService := services.GetImageService()
	imageKey, err := imageService.UploadImage(fileHeader, services.ProfileImagePrefix)
	if err != nil {
		abortWithError(c, utils.BadRequest(err.Error()))
		return
	}

	// Replacing an existing photo removes the old object
	oldKey := user.Photo
	user.Photo = imageKey
	if err := repository.GetUserRepository().Update(c.Request.Context(), user); err != nil {
		abortWithError(c, err)
		return
	}
	if oldKey != "" && oldKey != imageKey {
		// The profile already points at the new photo; a failed cleanup
		// only leaves a stale object behind
		if err := imageService.DeleteImage(oldKey); err != nil {
			log.Printf("Failed to delete old profile photo %s: %v", oldKey, err)
		}
	}

	utils.RespondData(c, http.StatusOK, gin.H{"user": user})
}
