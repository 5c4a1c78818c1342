package controllers

import (
	"github.com/gin-gonic/gin"
)

// abortWithError forwards an error to the centralized error handler
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
