package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/services"
	"github.com/skillhub/skillhub-api/utils"
)

// GetImageURL handles GET /api/v1/images/*key - resolves a stored image
// key to a short-lived presigned URL
func GetImageURL(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	if key == "" {
		abortWithError(c, utils.BadRequest("Image key is required"))
		return
	}

	// Keys live under the known upload prefixes; anything else is not ours
	if !strings.HasPrefix(key, services.ProfileImagePrefix+"/") &&
		!strings.HasPrefix(key, services.ServiceImagePrefix+"/") {
		abortWithError(c, utils.BadRequest("Invalid image key"))
		return
	}
	if strings.Contains(key, "..") {
		abortWithError(c, utils.BadRequest("Invalid image key"))
		return
	}

	url, err := services.GetImageService().GetImageURL(key)
	if err != nil {
		abortWithError(c, utils.NotFound("Image not found"))
		return
	}

	utils.RespondData(c, http.StatusOK, gin.H{"url": url})
}

// UploadServiceImage handles POST /api/v1/services/images - providers
// upload a PNG and receive the stored key to attach to a service
func UploadServiceImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		abortWithError(c, utils.BadRequest("Please attach an image file"))
		return
	}

	imageKey, err := services.GetImageService().UploadImage(fileHeader, services.ServiceImagePrefix)
	if err != nil {
		abortWithError(c, utils.BadRequest(err.Error()))
		return
	}

	utils.RespondData(c, http.StatusCreated, gin.H{"key": imageKey})
}
