package utils

import (
	"github.com/gin-gonic/gin"
)

// Envelope statuses: "success" for 2xx, "fail" for operational 4xx,
// "error" for 5xx and unknown failures.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// RespondData writes a success envelope with a data payload
func RespondData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"status": StatusSuccess,
		"data":   data,
	})
}

// RespondList writes a success envelope with a result count and data payload
func RespondList(c *gin.Context, statusCode int, results int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"status":  StatusSuccess,
		"results": results,
		"data":    data,
	})
}

// RespondMessage writes a success envelope carrying only a message
func RespondMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"status":  StatusSuccess,
		"message": message,
	})
}
