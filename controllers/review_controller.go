package controllers

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/middleware"
	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/query"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/skillhub/skillhub-api/services"
	"github.com/skillhub/skillhub-api/utils"
)

// CreateReviewRequest represents the request body for posting a review
type CreateReviewRequest struct {
	Rating  *float64 `json:"rating" binding:"required"`
	Comment string   `json:"comment" binding:"required"`
}

// ListServiceReviews handles GET /api/v1/services/:id/reviews
func ListServiceReviews(c *gin.Context) {
	serviceID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	params := c.Request.URL.Query()
	filter := query.ParseFilter(params)
	shape := query.ParseShape(params)

	reviews, err := repository.GetReviewRepository().FindByService(c.Request.Context(), serviceID, filter, shape)
	if err != nil {
		abortWithError(c, err)
		return
	}

	utils.RespondList(c, http.StatusOK, len(reviews), gin.H{"reviews": reviews})
}

// CreateReview handles POST /api/v1/services/:id/reviews. A user may
// review a service at most once; the service's aggregate stats are
// recomputed before the response is written.
func CreateReview(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	serviceID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Invalid request data: "+err.Error()))
		return
	}
	if !models.ValidRating(*req.Rating) {
		abortWithError(c, utils.BadRequest("Rating must be between 0 and 5"))
		return
	}
	if n := utf8.RuneCountInString(req.Comment); n < models.MinCommentLength || n > models.MaxCommentLength {
		abortWithError(c, utils.BadRequest(fmt.Sprintf(
			"Comment must be between %d and %d characters", models.MinCommentLength, models.MaxCommentLength)))
		return
	}

	serviceRepo := repository.GetServiceRepository()
	if _, err := serviceRepo.FindByID(c.Request.Context(), serviceID); err != nil {
		if err == repository.ErrNotFound {
			abortWithError(c, utils.NotFound("No service found with that ID"))
			return
		}
		abortWithError(c, err)
		return
	}

	review := models.Review{
		Service: serviceID,
		User:    user.ID,
		Rating:  *req.Rating,
		Comment: req.Comment,
	}

	if err := repository.GetReviewRepository().Create(c.Request.Context(), &review); err != nil {
		if repository.IsDuplicateKey(err) {
			abortWithError(c, utils.Conflict("You have already reviewed this service"))
			return
		}
		abortWithError(c, err)
		return
	}

	if err := serviceRepo.AddReviewRef(c.Request.Context(), serviceID, review.ID); err != nil {
		abortWithError(c, err)
		return
	}
	if err := services.GetStatsService().RecalcServiceStats(c.Request.Context(), serviceID); err != nil {
		abortWithError(c, err)
		return
	}

	utils.RespondData(c, http.StatusCreated, gin.H{"review": review})
}

// DeleteReview handles DELETE /api/v1/reviews/:id - author or admin only.
// Stats are recomputed before the response is written.
func DeleteReview(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	reviewRepo := repository.GetReviewRepository()
	review, err := reviewRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			abortWithError(c, utils.NotFound("No review found with that ID"))
			return
		}
		abortWithError(c, err)
		return
	}

	if review.User != user.ID && user.Role != models.RoleAdmin {
		abortWithError(c, utils.Forbidden("You can only delete your own reviews"))
		return
	}

	if err := reviewRepo.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	serviceRepo := repository.GetServiceRepository()
	if err := serviceRepo.RemoveReviewRef(c.Request.Context(), review.Service, review.ID); err != nil {
		abortWithError(c, err)
		return
	}
	if err := services.GetStatsService().RecalcServiceStats(c.Request.Context(), review.Service); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
