package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/config"
	"github.com/skillhub/skillhub-api/utils"
)

// ErrorHandler is the centralized error renderer. Controllers forward
// errors via c.Error instead of writing their own failure responses.
// Operational errors (utils.AppError) surface verbatim with their status
// code; everything else becomes a generic 500, with detail included only
// outside production.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		if appErr, ok := utils.AsAppError(last.Err); ok {
			status := utils.StatusFail
			if appErr.StatusCode >= http.StatusInternalServerError {
				status = utils.StatusError
			}
			c.JSON(appErr.StatusCode, gin.H{
				"status":  status,
				"message": appErr.Message,
			})
			return
		}

		log.Printf("Unexpected error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, last.Err)

		body := gin.H{
			"status":  utils.StatusError,
			"message": "Something went wrong",
		}
		cfg := config.GetConfig()
		if cfg == nil || !cfg.IsProduction() {
			body["error"] = last.Err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
